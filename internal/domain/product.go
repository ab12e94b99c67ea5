package domain

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"math"
	"slices"

	"github.com/shopspring/decimal"
)

// BlobSum - контентный хеш блока данных продукта.
type BlobSum [sha256.Size]byte

// Blob - неизменяемый блок данных продукта. Одинаковые по содержимому блоки
// разделяются между продуктами через BlobInterner.
type Blob struct {
	data []float64
	sum  BlobSum
}

// NewBlob копирует данные и вычисляет их хеш. Для nil возвращает nil.
func NewBlob(data []float64) *Blob {
	if data == nil {
		return nil
	}
	owned := slices.Clone(data)
	return &Blob{data: owned, sum: SumBlobData(owned)}
}

// SumBlobData считает sha256 по little-endian представлению значений.
func SumBlobData(data []float64) BlobSum {
	buf := make([]byte, 8*len(data))
	for i, v := range data {
		binary.LittleEndian.PutUint64(buf[i*8:], math.Float64bits(v))
	}
	return sha256.Sum256(buf)
}

// Data возвращает копию содержимого.
func (b *Blob) Data() []float64 {
	if b == nil {
		return nil
	}
	return slices.Clone(b.data)
}

// Len возвращает количество значений в блоке.
func (b *Blob) Len() int {
	if b == nil {
		return 0
	}
	return len(b.data)
}

// Sum возвращает контентный хеш блока.
func (b *Blob) Sum() BlobSum {
	if b == nil {
		return BlobSum{}
	}
	return b.sum
}

// Equal сравнивает блоки по содержимому, а не по указателю.
func (b *Blob) Equal(other *Blob) bool {
	if b == nil || other == nil {
		return b == nil && other == nil
	}
	if b == other {
		return true
	}
	return b.sum == other.sum && slices.Equal(b.data, other.data)
}

// ProductData - сырые блоки данных при создании продукта.
type ProductData struct {
	Manufacturing []float64
	Recipe        []float64
	Marketing     []float64
	Safety        []float64
	Licensing     []float64
}

// ProductKey - стабильный ключ продукта по значению всех его полей.
type ProductKey string

// Product - value object каталога. Равенство определяется по имени, цене и
// содержимому всех пяти блоков данных.
type Product struct {
	name          string
	cost          decimal.Decimal
	manufacturing *Blob
	recipe        *Blob
	marketing     *Blob
	safety        *Blob
	licensing     *Blob
	key           ProductKey
}

// NewProduct собирает продукт. Если interner не nil, блоки данных
// дедуплицируются через него.
func NewProduct(name string, cost decimal.Decimal, data ProductData, interner BlobInterner) Product {
	intern := NewBlob
	if interner != nil {
		intern = interner.Intern
	}

	p := Product{
		name:          name,
		cost:          cost,
		manufacturing: intern(data.Manufacturing),
		recipe:        intern(data.Recipe),
		marketing:     intern(data.Marketing),
		safety:        intern(data.Safety),
		licensing:     intern(data.Licensing),
	}
	p.key = p.computeKey()
	return p
}

func (p Product) computeKey() ProductKey {
	h := sha256.New()
	h.Write([]byte(p.name))
	h.Write([]byte{0})
	h.Write([]byte(p.cost.String()))
	for _, blob := range p.blobs() {
		if blob == nil {
			h.Write([]byte{0})
			continue
		}
		h.Write([]byte{1})
		sum := blob.Sum()
		h.Write(sum[:])
	}
	return ProductKey(hex.EncodeToString(h.Sum(nil)))
}

func (p Product) blobs() [5]*Blob {
	return [5]*Blob{p.manufacturing, p.recipe, p.marketing, p.safety, p.licensing}
}

// Name возвращает название продукта.
func (p Product) Name() string { return p.name }

// Cost возвращает цену за единицу.
func (p Product) Cost() decimal.Decimal { return p.cost }

// Key возвращает ключ продукта по значению.
func (p Product) Key() ProductKey { return p.key }

// ManufacturingData возвращает копию производственных данных.
func (p Product) ManufacturingData() []float64 { return p.manufacturing.Data() }

// RecipeData возвращает копию рецептуры.
func (p Product) RecipeData() []float64 { return p.recipe.Data() }

// MarketingData возвращает копию маркетинговых данных.
func (p Product) MarketingData() []float64 { return p.marketing.Data() }

// SafetyData возвращает копию данных по безопасности.
func (p Product) SafetyData() []float64 { return p.safety.Data() }

// LicensingData возвращает копию лицензионных данных.
func (p Product) LicensingData() []float64 { return p.licensing.Data() }

// Equal сравнивает продукты по значению.
func (p Product) Equal(other Product) bool {
	if p.name != other.name || !p.cost.Equal(other.cost) {
		return false
	}
	mine, theirs := p.blobs(), other.blobs()
	for i := range mine {
		if !mine[i].Equal(theirs[i]) {
			return false
		}
	}
	return true
}

// SharesBlobs сообщает, ссылаются ли продукты на одни и те же экземпляры блоков.
func (p Product) SharesBlobs(other Product) bool {
	mine, theirs := p.blobs(), other.blobs()
	for i := range mine {
		if mine[i] != theirs[i] {
			return false
		}
	}
	return true
}

// String возвращает название продукта.
func (p Product) String() string { return p.name }

// compareProducts упорядочивает продукты по (имя, цена).
func compareProducts(a, b Product) int {
	if a.name != b.name {
		if a.name < b.name {
			return -1
		}
		return 1
	}
	return a.cost.Cmp(b.cost)
}

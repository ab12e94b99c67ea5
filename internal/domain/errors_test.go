package domain

import (
	"errors"
	"fmt"
	"testing"
)

func TestIsNotFound(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{
			name: "order not found",
			err:  ErrOrderNotFound,
			want: true,
		},
		{
			name: "wrapped customer not found",
			err:  fmt.Errorf("load customer 7: %w", ErrCustomerNotFound),
			want: true,
		},
		{
			name: "joined product not found",
			err:  errors.Join(errors.New("restore"), ErrProductNotFound),
			want: true,
		},
		{
			name: "finalised order",
			err:  ErrOrderFinalised,
			want: false,
		},
		{
			name: "nil error",
			err:  nil,
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsNotFound(tt.err); got != tt.want {
				t.Errorf("IsNotFound() = %v, want %v", got, tt.want)
			}
		})
	}
}

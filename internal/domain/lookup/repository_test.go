package lookup

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrNotFound(t *testing.T) {
	err := ErrNotFound{Kind: KindTransactionType, Name: "Ingreso"}
	assert.Equal(t, `transaction_type not found: "Ingreso"`, err.Error())

	wrapped := fmt.Errorf("failed to resolve: %w", err)
	assert.True(t, errors.Is(wrapped, ErrNotFound{}))

	var target ErrNotFound
	assert.True(t, errors.As(wrapped, &target))
	assert.Equal(t, "Ingreso", target.Name)

	assert.False(t, errors.Is(errors.New("boom"), ErrNotFound{}))
}

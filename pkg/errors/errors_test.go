package errors

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// Пользовательское значение передаётся аргументом, а не форматной
// строкой: verbs вида %s внутри него должны попадать в сообщение как есть.
func TestNewInvalidInputError_VerbsInValue(t *testing.T) {
	err := NewInvalidInputError("неизвестный статус: %s", "In %s Progress")
	assert.Equal(t, "неизвестный статус: In %s Progress", err.Error())

	var invalid *InvalidInputError
	assert.ErrorAs(t, err, &invalid)
}

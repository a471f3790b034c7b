package services

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
)

// Заголовок режется по символам, а не по байтам: кириллица занимает
// два байта на символ, и срез по байтам рвал бы руну посередине.
func TestWorkOrderTitleFrom(t *testing.T) {
	short := "Протекает кран в цехе №3"
	assert.Equal(t, short, workOrderTitleFrom(short))

	exact := strings.Repeat("а", 50)
	assert.Equal(t, exact, workOrderTitleFrom(exact))

	long := strings.Repeat("насос ", 20) // 120 символов
	title := workOrderTitleFrom(long)
	assert.Equal(t, string([]rune(long)[:50])+"...", title)
	assert.Equal(t, 53, utf8.RuneCountInString(title))
	assert.True(t, utf8.ValidString(title))
}

// Нечётный байтовый префикс перед кириллицей — срез по байтам на 50-м
// байте попал бы в середину руны.
func TestWorkOrderTitleFrom_MixedScripts(t *testing.T) {
	desc := "a" + strings.Repeat("ж", 60)
	title := workOrderTitleFrom(desc)

	assert.True(t, utf8.ValidString(title))
	assert.Equal(t, "a"+strings.Repeat("ж", 49)+"...", title)
}

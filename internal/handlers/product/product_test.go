package product

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSplitCategories(t *testing.T) {
	assert.Equal(t, []string{"audio", "hifi", "promo"}, splitCategories("audio, hifi ,promo"))
	assert.Empty(t, splitCategories(""))
	assert.Empty(t, splitCategories(" , ,"))
	assert.Equal(t, []string{"audio"}, splitCategories("audio"))
}

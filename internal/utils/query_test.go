package utils

import (
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func queryContext(t *testing.T, rawQuery string) *gin.Context {
	t.Helper()
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest("GET", "/?"+rawQuery, nil)
	return c
}

func TestQueryInt(t *testing.T) {
	c := queryContext(t, "limit=25&skip=50")
	assert.Equal(t, 25, QueryInt(c, "limit", 10))
	assert.Equal(t, 50, QueryInt(c, "skip", 0))
}

func TestQueryIntFallbacks(t *testing.T) {
	c := queryContext(t, "limit=abc&skip=-3&other=0")
	assert.Equal(t, 10, QueryInt(c, "limit", 10))   // non numérique
	assert.Equal(t, 0, QueryInt(c, "skip", 0))      // négatif
	assert.Equal(t, 10, QueryInt(c, "missing", 10)) // absent

	c = queryContext(t, "limit=0")
	assert.Equal(t, 10, QueryInt(c, "limit", 10)) // limit=0 n'a pas de sens
}

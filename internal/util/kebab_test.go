package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCamelToKebab(t *testing.T) {
	assert.Equal(t, "my-directive", CamelToKebab("myDirective"))
	assert.Equal(t, "a-b-c", CamelToKebab("ABC"))
	assert.Equal(t, "my-a-b-c-widget", CamelToKebab("myABCWidget"))
	assert.Equal(t, "widget", CamelToKebab("widget"))
}

func TestKebabToCamel(t *testing.T) {
	assert.Equal(t, "myDirective", KebabToCamel("my-directive"))
	assert.Equal(t, "myABCWidget", KebabToCamel("my-a-b-c-widget"))
	assert.Equal(t, "widget", KebabToCamel("widget"))
}

func TestKebabCamelRoundTrip(t *testing.T) {
	ids := []string{"myDirective", "ngRepeat", "uibModal", "myWidgetThing", "x"}
	for _, id := range ids {
		assert.Equal(t, id, KebabToCamel(CamelToKebab(id)), "round trip for %s", id)
	}
}

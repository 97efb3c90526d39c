package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type sample struct {
	Title string   `json:"title" validate:"required,max=5"`
	Stars int      `json:"rating" validate:"gte=1,lte=5"`
	Tags  []string `json:"tags" validate:"max=2"`
}

func TestCheck(t *testing.T) {
	v := New()
	v.Check(true, "a", "never")
	v.Check(false, "b", "first")
	v.Check(false, "b", "second")
	assert.False(t, v.Valid())
	assert.Equal(t, map[string]string{"b": "first"}, v.Errors)
}

func TestStruct(t *testing.T) {
	v := New()
	v.Struct(sample{Title: "", Stars: 9, Tags: []string{"a", "b", "c"}})
	assert.Equal(t, map[string]string{
		"title":  "must be provided",
		"rating": "must be less than or equal to 5",
		"tags":   "must not contain more than 2 items",
	}, v.Errors)

	v = New()
	v.Struct(sample{Title: "longer", Stars: 3})
	assert.Equal(t, "title must not be more than 5 bytes long", v.Error())

	v = New()
	v.Struct(sample{Title: "ok", Stars: 3})
	assert.True(t, v.Valid())
}

func TestError(t *testing.T) {
	v := New()
	v.AddError("title", "must be provided")
	v.AddError("caption", "must be provided")
	assert.Equal(t, "caption must be provided; title must be provided", v.Error())
}

func TestPermittedValueAndUnique(t *testing.T) {
	assert.True(t, PermittedValue("a", "a", "b"))
	assert.False(t, PermittedValue(3, 1, 2))
	assert.True(t, Unique([]string{"a", "b"}))
	assert.False(t, Unique([]int{1, 1}))
}

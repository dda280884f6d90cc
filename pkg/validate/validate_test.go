package validate_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/rewearhq/rewear/pkg/validate"
)

type listingInput struct {
	Title       string `json:"title"       validate:"required,min=3,max=120"`
	Description string `json:"description" validate:"nullable,max=2000"`
	Condition   string `json:"condition"   validate:"required,in=New,Like New,Good,Fair"`
	PointCost   int    `json:"point_cost"  validate:"required,gte=1,lte=1000"`
	AvatarURL   string `json:"avatar_url"  validate:"nullable,url"`
}

func TestValidInputPasses(t *testing.T) {
	errs := validate.Struct(listingInput{
		Title:     "Denim Jacket",
		Condition: "Like New",
		PointCost: 120,
	})
	assert.False(t, validate.HasErrors(errs), "unexpected errors: %v", errs)
}

func TestRequiredFields(t *testing.T) {
	errs := validate.Struct(listingInput{})
	assert.Contains(t, errs, "title")
	assert.Contains(t, errs, "condition")
	assert.Contains(t, errs, "point_cost")
	assert.NotContains(t, errs, "description")
}

func TestEmailRule(t *testing.T) {
	type in struct {
		Email string `json:"email" validate:"required,email"`
	}
	assert.Contains(t, validate.Struct(in{Email: "not-an-email"}), "email")
	assert.Empty(t, validate.Struct(in{Email: "swap@rewear.example"}))
}

func TestNumericBounds(t *testing.T) {
	type in struct {
		Points int `json:"points" validate:"required,gte=1,lte=1000"`
	}
	assert.Contains(t, validate.Struct(in{Points: 1500}), "points")
	assert.Empty(t, validate.Struct(in{Points: 120}))
}

func TestStringLengthBounds(t *testing.T) {
	errs := validate.Struct(listingInput{Title: "ab", Condition: "Good", PointCost: 5})
	assert.Contains(t, errs, "title")
}

func TestInRuleKeepsSpacedValues(t *testing.T) {
	// "Like New" contains a comma-adjacent space; the tag splitter must not
	// cut the value list apart, even with a trailing rule after it.
	type in struct {
		Condition string `json:"condition" validate:"required,in=New,Like New,Good,Fair,max=20"`
	}
	assert.Contains(t, validate.Struct(in{Condition: "Mint"}), "condition")
	assert.Empty(t, validate.Struct(in{Condition: "Like New"}))
}

func TestNullableSkipsRemainingRules(t *testing.T) {
	type in struct {
		AvatarURL string `json:"avatar_url" validate:"nullable,url"`
	}
	assert.Empty(t, validate.Struct(in{AvatarURL: ""}))
	assert.Contains(t, validate.Struct(in{AvatarURL: "not-a-url"}), "avatar_url")
}

func TestPointerFieldsDereferenced(t *testing.T) {
	type in struct {
		FullName *string `json:"full_name" validate:"nullable,min=2,max=100"`
	}
	short := "x"
	ok := "Ada Lovelace"
	assert.Empty(t, validate.Struct(in{}))
	assert.Contains(t, validate.Struct(in{FullName: &short}), "full_name")
	assert.Empty(t, validate.Struct(in{FullName: &ok}))
}

func TestFirstFailureWinsPerField(t *testing.T) {
	type in struct {
		Title string `json:"title" validate:"required,min=3"`
	}
	errs := validate.Struct(in{})
	assert.Equal(t, "The title field is required.", errs["title"])
}

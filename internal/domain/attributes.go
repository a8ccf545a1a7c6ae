package domain

// GenerationAttributes holds the product details a description is generated
// from. The struct is mutable while a form is being edited and treated as
// immutable once handed to a generation call.
type GenerationAttributes struct {
	ProductName     string `json:"product_name"`
	ProductCategory string `json:"product_category"`
	TargetAudience  string `json:"target_audience"`
	UserDescription string `json:"user_description"`
	TargetLanguage  string `json:"target_language"`
}

// ProductCategories is the fixed set of categories offered by the form.
var ProductCategories = []string{
	"Electronics",
	"Fashion & Apparel",
	"Home & Garden",
	"Beauty & Personal Care",
	"Sports & Outdoors",
	"Toys & Games",
	"Food & Beverage",
	"Books & Stationery",
	"Health & Wellness",
	"Automotive",
}

// TargetAudiences is the fixed set of audience bands offered by the form.
var TargetAudiences = []string{
	"kids",
	"teens",
	"adults",
	"seniors",
	"professionals",
	"everyone",
}

// IsKnownCategory reports whether category is one of ProductCategories.
func IsKnownCategory(category string) bool {
	for _, c := range ProductCategories {
		if c == category {
			return true
		}
	}
	return false
}

// IsKnownAudience reports whether audience is one of TargetAudiences.
func IsKnownAudience(audience string) bool {
	for _, a := range TargetAudiences {
		if a == audience {
			return true
		}
	}
	return false
}

package oauth

import "github.com/kamaudevs/sokoapi/models"

// BuildClaims assembles the OpenID Connect claims for an authenticated
// customer. Standard claims are always present with safe defaults for any
// optional attribute the customer lacks; phone_number and address are emitted
// only when the profile scope was granted. The builder never fails.
func BuildClaims(customer *models.Customer, scopes []string) map[string]interface{} {
	claims := map[string]interface{}{
		"sub":                customer.ID.String(),
		"name":               customer.DisplayName(),
		"given_name":         customer.FirstName,
		"family_name":        customer.LastName,
		"email":              customer.Email,
		"email_verified":     customer.IsVerified,
		"preferred_username": customer.Username,
	}

	if HasScope(scopes, ScopeProfile) {
		claims["phone_number"] = customer.PhoneNumber
		claims["address"] = customer.Address
	}

	return claims
}

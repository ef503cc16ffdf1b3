package storefront

import "encoding/json"

// Wire types for the storefront GraphQL API. The remote nests everything in
// edge/node connections; transform.go flattens these into model records.

// graphQLRequest is the POST body: a query document plus its variables.
type graphQLRequest struct {
	Query     string         `json:"query"`
	Variables map[string]any `json:"variables,omitempty"`
}

// graphQLResponse is the response envelope: either data or an errors array.
// Presence of errors is treated the same as a failed request.
type graphQLResponse struct {
	Data   json.RawMessage `json:"data"`
	Errors []graphQLError  `json:"errors"`
}

type graphQLError struct {
	Message string `json:"message"`
}

type moneyNode struct {
	Amount       string `json:"amount"`
	CurrencyCode string `json:"currencyCode"`
}

type imageNode struct {
	URL     string `json:"url"`
	AltText string `json:"altText"`
}

type selectedOptionNode struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

type optionNode struct {
	Name   string   `json:"name"`
	Values []string `json:"values"`
}

type variantNode struct {
	ID               string               `json:"id"`
	Title            string               `json:"title"`
	Price            moneyNode            `json:"price"`
	AvailableForSale bool                 `json:"availableForSale"`
	SelectedOptions  []selectedOptionNode `json:"selectedOptions"`
}

type imageConnection struct {
	Edges []struct {
		Node imageNode `json:"node"`
	} `json:"edges"`
}

type variantConnection struct {
	Edges []struct {
		Node variantNode `json:"node"`
	} `json:"edges"`
}

type productNode struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Handle      string `json:"handle"`
	PriceRange  struct {
		MinVariantPrice moneyNode `json:"minVariantPrice"`
	} `json:"priceRange"`
	Images   imageConnection   `json:"images"`
	Variants variantConnection `json:"variants"`
	Options  []optionNode      `json:"options"`
}

// productsEnvelope is the data payload for the product list query.
type productsEnvelope struct {
	Products struct {
		Edges []struct {
			Node productNode `json:"node"`
		} `json:"edges"`
	} `json:"products"`
}

// productByHandleEnvelope is the data payload for the single-product query.
// ProductByHandle is null when the handle is unknown.
type productByHandleEnvelope struct {
	ProductByHandle *productNode `json:"productByHandle"`
}

// cartCreateEnvelope is the data payload for the cart creation mutation.
type cartCreateEnvelope struct {
	CartCreate struct {
		Cart       *cartNode   `json:"cart"`
		UserErrors []userError `json:"userErrors"`
	} `json:"cartCreate"`
}

type cartNode struct {
	ID            string `json:"id"`
	CheckoutURL   string `json:"checkoutUrl"`
	TotalQuantity int    `json:"totalQuantity"`
	Cost          struct {
		TotalAmount moneyNode `json:"totalAmount"`
	} `json:"cost"`
}

// userError is a user-facing rejection from the remote mutation.
type userError struct {
	Field   []string `json:"field"`
	Message string   `json:"message"`
}

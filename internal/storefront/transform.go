package storefront

import (
	"fmt"

	"storefront-core/internal/model"
)

// productFromNode flattens the remote's nested edge/node representation into
// a flat model.Product. A missing expected field is a normalization failure;
// the caller folds it into the empty/nil outcome.
//
// Variant order is carried through untouched: primary-variant selection
// downstream depends on source order.
func productFromNode(n productNode) (model.Product, error) {
	if n.ID == "" {
		return model.Product{}, fmt.Errorf("product record missing id")
	}
	if n.Title == "" {
		return model.Product{}, fmt.Errorf("product %s missing title", n.ID)
	}
	if n.Handle == "" {
		return model.Product{}, fmt.Errorf("product %s missing handle", n.ID)
	}
	if n.PriceRange.MinVariantPrice.Amount == "" {
		return model.Product{}, fmt.Errorf("product %s missing price range", n.ID)
	}

	images := make([]model.Image, 0, len(n.Images.Edges))
	for _, edge := range n.Images.Edges {
		if edge.Node.URL == "" {
			return model.Product{}, fmt.Errorf("product %s has image without url", n.ID)
		}
		images = append(images, model.Image{
			URL:     edge.Node.URL,
			AltText: edge.Node.AltText,
		})
	}

	variants := make([]model.Variant, 0, len(n.Variants.Edges))
	for _, edge := range n.Variants.Edges {
		v, err := variantFromNode(edge.Node)
		if err != nil {
			return model.Product{}, fmt.Errorf("product %s: %w", n.ID, err)
		}
		variants = append(variants, v)
	}

	options := make([]model.ProductOption, 0, len(n.Options))
	for _, opt := range n.Options {
		options = append(options, model.ProductOption{
			Name:   opt.Name,
			Values: opt.Values,
		})
	}

	return model.Product{
		ID:          n.ID,
		Title:       n.Title,
		Description: n.Description,
		Handle:      n.Handle,
		Price: model.Money{
			Amount:       n.PriceRange.MinVariantPrice.Amount,
			CurrencyCode: n.PriceRange.MinVariantPrice.CurrencyCode,
		},
		Images:   images,
		Variants: variants,
		Options:  options,
	}, nil
}

func variantFromNode(n variantNode) (model.Variant, error) {
	if n.ID == "" {
		return model.Variant{}, fmt.Errorf("variant record missing id")
	}
	if n.Price.Amount == "" {
		return model.Variant{}, fmt.Errorf("variant %s missing price", n.ID)
	}

	opts := make([]model.SelectedOption, 0, len(n.SelectedOptions))
	for _, o := range n.SelectedOptions {
		opts = append(opts, model.SelectedOption{Name: o.Name, Value: o.Value})
	}

	return model.Variant{
		ID:               n.ID,
		Title:            n.Title,
		Price:            model.Money{Amount: n.Price.Amount, CurrencyCode: n.Price.CurrencyCode},
		AvailableForSale: n.AvailableForSale,
		SelectedOptions:  opts,
	}, nil
}

package app

import (
	"context"
	"log"
	"strings"

	"symptom-quiz-service/internal/domain"
)

// Outcome kinds, chosen by score.
const (
	OutcomeProduct      = "product"
	OutcomeConsultation = "consultation"
	OutcomeEducation    = "education"
)

// ResultMessage is the severity-specific recommendation copy.
type ResultMessage struct {
	Title string `json:"title"`
	Text  string `json:"text"`
}

// Outcome is the presented result view for a completed quiz.
type Outcome struct {
	Kind    string          `json:"kind"`
	Message ResultMessage   `json:"message"`
	Product *domain.Product `json:"product,omitempty"`
}

// ProductLookup resolves a storefront product by handle. A nil product with
// nil error means not found.
type ProductLookup interface {
	ProductByHandle(ctx context.Context, handle string) (*domain.Product, error)
}

// DefaultHandleFormat derives the recommended product handle from the
// selected region; {region} is replaced with the hyphenated region value.
const DefaultHandleFormat = "{region}-allergy-drops"

var severityMessages = map[string]ResultMessage{
	domain.SeverityMinimal: {
		Title: "Minimal Symptoms",
		Text:  "Your symptoms appear minimal. Learn how to keep them that way.",
	},
	domain.SeverityMild: {
		Title: "Mild Symptoms",
		Text:  "Your symptoms are mild. A consultation can help you stay ahead of them.",
	},
	domain.SeverityModerate: {
		Title: "Moderate Symptoms",
		Text:  "Your symptoms are moderate. Regional allergy drops may provide relief.",
	},
	domain.SeveritySevere: {
		Title: "Severe Symptoms",
		Text:  "Your symptoms are severe. We recommend starting treatment promptly.",
	},
}

// Presenter maps a submission onto one of three mutually exclusive outcome
// views. Product lookups that fail or come back empty fall back to the
// consultation view.
type Presenter struct {
	products     ProductLookup
	handleFormat string
}

func NewPresenter(products ProductLookup, handleFormat string) *Presenter {
	if handleFormat == "" {
		handleFormat = DefaultHandleFormat
	}
	return &Presenter{products: products, handleFormat: handleFormat}
}

func (p *Presenter) Present(ctx context.Context, rec domain.Submission) Outcome {
	out := Outcome{Message: severityMessages[rec.Severity]}
	switch {
	case rec.Score >= 10:
		if product := p.lookupProduct(ctx, rec.Region); product != nil {
			out.Kind = OutcomeProduct
			out.Product = product
			return out
		}
		out.Kind = OutcomeConsultation
	case rec.Score >= 5:
		out.Kind = OutcomeConsultation
	default:
		out.Kind = OutcomeEducation
	}
	return out
}

// ProductHandle renders the handle for a region value.
func (p *Presenter) ProductHandle(region string) string {
	return strings.ReplaceAll(p.handleFormat, "{region}", strings.ReplaceAll(region, "_", "-"))
}

func (p *Presenter) lookupProduct(ctx context.Context, region string) *domain.Product {
	if p.products == nil || region == "" {
		return nil
	}
	handle := p.ProductHandle(region)
	product, err := p.products.ProductByHandle(ctx, handle)
	if err != nil {
		log.Printf("product lookup failed for %q: %v", handle, err)
		return nil
	}
	return product
}

package httphandler

import (
	"github.com/niksmo/storefront/internal/core/domain"
	"github.com/niksmo/storefront/pkg/imageref"
)

type (
	ProductInput struct {
		Name        string   `json:"name"`
		Price       float64  `json:"price"`
		Description string   `json:"description"`
		Images      []string `json:"images"`
	}

	Product struct {
		ID          string   `json:"id"`
		Name        string   `json:"name"`
		Price       float64  `json:"price"`
		PriceText   string   `json:"price_text"`
		Description string   `json:"description"`
		Images      []string `json:"images"`
		ContactLink string   `json:"contact_link,omitempty"`
	}
)

// Draft keeps locators as is and stores uploaded data URIs as raw payloads.
func (in ProductInput) Draft() domain.ProductDraft {
	images := make([]string, 0, len(in.Images))
	for _, ref := range in.Images {
		if ref == "" {
			continue
		}
		images = append(images, imageref.Strip(ref))
	}
	return domain.ProductDraft{
		Name:        in.Name,
		Price:       in.Price,
		Description: in.Description,
		Images:      images,
	}
}

func productView(p domain.Product, contactNumber string) Product {
	images := make([]string, len(p.Images))
	for i, ref := range p.Images {
		images[i] = imageref.URL(ref)
	}
	return Product{
		ID:          p.ID,
		Name:        p.Name,
		Price:       p.Price,
		PriceText:   domain.FormatPrice(p.Price),
		Description: p.Description,
		Images:      images,
		ContactLink: ContactLink(contactNumber, p.Name),
	}
}

type (
	Credentials struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}

	CredentialsUpdate struct {
		Username        string `json:"username"`
		Password        string `json:"password"`
		ConfirmPassword string `json:"confirm_password"`
	}

	SessionState struct {
		Authenticated bool   `json:"authenticated"`
		Username      string `json:"username,omitempty"`
	}
)

type Contact struct {
	Number string `json:"number"`
}

type Notification struct {
	Open     bool   `json:"open"`
	Message  string `json:"message"`
	Severity string `json:"severity"`
}

func notificationView(n domain.Notification) Notification {
	return Notification{
		Open:     n.Open,
		Message:  n.Message,
		Severity: string(n.Severity),
	}
}

type (
	TryOnRequest struct {
		ProductID   string `json:"product_id"`
		PersonImage string `json:"person_image"`
		MIMEType    string `json:"mime_type"`
	}

	TryOnTask struct {
		ID        string `json:"id"`
		ProductID string `json:"product_id"`
		Outcome   string `json:"outcome"`
		Image     string `json:"image,omitempty"`
		Error     string `json:"error,omitempty"`
	}
)

package payments

import "github.com/max-de-bug/portion-app-sub001/pkg/models"

// Catalog holds the pay-per-call services offered through x402.
// It is read-only after construction.
type Catalog struct {
	services []models.Service
	byID     map[string]models.Service
}

// NewCatalog creates a Catalog from the given services.
func NewCatalog(services []models.Service) *Catalog {
	byID := make(map[string]models.Service, len(services))
	for _, svc := range services {
		byID[svc.Id] = svc
	}
	return &Catalog{services: services, byID: byID}
}

// DefaultCatalog returns the built-in demo service catalog.
func DefaultCatalog() *Catalog {
	return NewCatalog([]models.Service{
		{Id: "ai-summarize", Description: "Summarize a document with an LLM", Price: 0.05, Type: models.ServiceTypeAPI, X402Enabled: true},
		{Id: "ai-sentiment", Description: "Sentiment analysis for short text", Price: 0.02, Type: models.ServiceTypeAPI, X402Enabled: true},
		{Id: "ai-translate", Description: "Translate text between languages", Price: 0.03, Type: models.ServiceTypeAPI, X402Enabled: true},
		{Id: "ai-embeddings", Description: "Generate vector embeddings", Price: 0.01, Type: models.ServiceTypeAPI, X402Enabled: true},
		{Id: "render-cloud", Description: "One render job on shared GPU", Price: 0.25, Type: models.ServiceTypeCloud, X402Enabled: true},
	})
}

// Services returns every catalog entry.
func (c *Catalog) Services() []models.Service {
	out := make([]models.Service, len(c.services))
	copy(out, c.services)
	return out
}

// ByID looks a service up by id.
func (c *Catalog) ByID(id string) (models.Service, bool) {
	svc, ok := c.byID[id]
	return svc, ok
}

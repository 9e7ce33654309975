package schema

import (
	"time"

	"github.com/hamba/avro/v2"
)

const CatalogEventSchemaTextV1 = `{
	"type": "record",
	"namespace": "storefront.catalog",
	"name": "catalog_event",
	"fields": [
		{"name": "kind", "type": {
			"type": "enum",
			"name": "catalog_event_kind",
			"symbols": ["product_added", "product_updated", "product_removed"]
		}},
		{"name": "product_id", "type": "string"},
		{"name": "occurred_at", "type": {"type": "long", "logicalType": "timestamp-millis"}},
		{"name": "product", "type": ["null", {
			"type": "record",
			"name": "product",
			"fields": [
				{"name": "id", "type": "string"},
				{"name": "name", "type": "string"},
				{"name": "price", "type": "double"},
				{"name": "description", "type": "string"},
				{"name": "images", "type": {"type": "array", "items": "string"}}
			]
		}], "default": null}
	]
}`

type (
	CatalogEventV1 struct {
		Kind       string     `avro:"kind"`
		ProductID  string     `avro:"product_id"`
		OccurredAt time.Time  `avro:"occurred_at"`
		Product    *ProductV1 `avro:"product"`
	}

	ProductV1 struct {
		ID          string   `avro:"id"`
		Name        string   `avro:"name"`
		Price       float64  `avro:"price"`
		Description string   `avro:"description"`
		Images      []string `avro:"images"`
	}
)

func CatalogEventV1Avro() avro.Schema {
	return avro.MustParse(CatalogEventSchemaTextV1)
}

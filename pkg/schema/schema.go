// Package schema holds Avro schemas of the records written to the broker
// and serdes bound to the schema registry.
package schema

import (
	"context"

	"github.com/hamba/avro/v2"
	"github.com/twmb/franz-go/pkg/sr"
)

// A SchemaIdentifier returns the registry ID of the schema text under
// subject, registering it when needed.
type SchemaIdentifier interface {
	DetermineID(ctx context.Context, subject, schemaText string) (int, error)
}

type schemaCreater interface {
	CreateSchema(
		ctx context.Context, subject string, s sr.Schema,
	) (sr.SubjectSchema, error)
}

type RegistryIdentifier struct {
	cl schemaCreater
}

var _ SchemaIdentifier = RegistryIdentifier{}

func NewRegistryIdentifier(cl *sr.Client) RegistryIdentifier {
	return RegistryIdentifier{cl}
}

func (ri RegistryIdentifier) DetermineID(
	ctx context.Context, subject, schemaText string,
) (int, error) {
	ss, err := ri.cl.CreateSchema(ctx, subject, sr.Schema{
		Type:   sr.TypeAvro,
		Schema: schemaText,
	})
	if err != nil {
		return 0, err
	}
	return ss.ID, nil
}

// TopicSubject follows the registry's TopicNameStrategy for record values.
func TopicSubject(topic string) string {
	return topic + "-value"
}

func AvroEncodeFn(s avro.Schema) func(v any) ([]byte, error) {
	return func(v any) ([]byte, error) {
		return avro.Marshal(s, v)
	}
}

func AvroDecodeFn(s avro.Schema) func([]byte, any) error {
	return func(data []byte, v any) error {
		return avro.Unmarshal(s, data, v)
	}
}

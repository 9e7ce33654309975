package schema_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/hamba/avro/v2"
	"github.com/niksmo/storefront/pkg/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockSchemaIdentifier struct {
	mock.Mock
}

func (c *MockSchemaIdentifier) DetermineID(
	ctx context.Context, subject string, avroSchemaText string,
) (id int, err error) {
	args := c.Called(ctx, subject, avroSchemaText)
	return args.Int(0), args.Error(1)
}

func TestSerdeCatalogEventV1(t *testing.T) {
	subject := schema.TopicSubject("storefront-catalog-events")

	t.Run("NoOpts", func(t *testing.T) {
		_, err := schema.NewSerdeCatalogEventV1(t.Context())
		assert.ErrorIs(t, err, schema.ErrTooFewOpts)
	})

	t.Run("OneOpt", func(t *testing.T) {
		_, err := schema.NewSerdeCatalogEventV1(
			t.Context(),
			schema.SchemaIdentifierOpt(new(MockSchemaIdentifier)),
		)
		assert.ErrorIs(t, err, schema.ErrTooFewOpts)
	})

	t.Run("RegistryError", func(t *testing.T) {
		registryErr := errors.New("registry unavailable")
		si := new(MockSchemaIdentifier)
		si.On(
			"DetermineID", t.Context(), subject, schema.CatalogEventSchemaTextV1,
		).Return(0, registryErr)

		_, err := schema.NewSerdeCatalogEventV1(
			t.Context(),
			schema.SubjectOpt(subject),
			schema.SchemaIdentifierOpt(si),
		)
		assert.ErrorIs(t, err, registryErr)
		si.AssertExpectations(t)
	})

	t.Run("EncodeDecode", func(t *testing.T) {
		si := new(MockSchemaIdentifier)
		si.On(
			"DetermineID", t.Context(), subject, schema.CatalogEventSchemaTextV1,
		).Return(7, nil)

		serde, err := schema.NewSerdeCatalogEventV1(
			t.Context(),
			schema.SubjectOpt(subject),
			schema.SchemaIdentifierOpt(si),
		)
		require.NoError(t, err)

		in := schema.CatalogEventV1{
			Kind:       "product_updated",
			ProductID:  "2",
			OccurredAt: time.UnixMilli(1_700_000_000_123).UTC(),
			Product: &schema.ProductV1{
				ID:          "2",
				Name:        "Vestido Floral",
				Price:       280,
				Description: "Leve e fresco",
				Images:      []string{"https://picsum.photos/seed/2/600/800"},
			},
		}

		data, err := serde.Encode(in)
		require.NoError(t, err)
		require.Greater(t, len(data), 5)
		assert.Equal(t, byte(0), data[0], "registry magic byte")

		var out schema.CatalogEventV1
		require.NoError(t, serde.Decode(data, &out))
		assert.Equal(t, in.Kind, out.Kind)
		assert.Equal(t, in.ProductID, out.ProductID)
		assert.True(t, in.OccurredAt.Equal(out.OccurredAt))
		assert.Equal(t, in.Product, out.Product)
	})
}

func TestCatalogEventV1(t *testing.T) {
	var s avro.Schema
	require.NotPanics(t, func() {
		s = schema.CatalogEventV1Avro()
	})

	t.Run("RemovedWithoutProduct", func(t *testing.T) {
		in := schema.CatalogEventV1{
			Kind:       "product_removed",
			ProductID:  "3",
			OccurredAt: time.UnixMilli(1_700_000_000_000).UTC(),
		}
		data, err := avro.Marshal(s, in)
		require.NoError(t, err)

		var out schema.CatalogEventV1
		require.NoError(t, avro.Unmarshal(s, data, &out))
		assert.Equal(t, "product_removed", out.Kind)
		assert.Nil(t, out.Product)
	})

	t.Run("UnknownKind", func(t *testing.T) {
		_, err := avro.Marshal(s, schema.CatalogEventV1{Kind: "product_sold"})
		assert.Error(t, err)
	})
}

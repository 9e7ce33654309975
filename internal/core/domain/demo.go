package domain

// DemoProducts is the catalog shown when the store starts with seeding enabled.
func DemoProducts() []Product {
	return []Product{
		{
			ID:          "1",
			Name:        "Vestido Floral de Verão",
			Price:       189.90,
			Description: "Um vestido leve e arejado, perfeito para os dias quentes de verão.",
			Images:      []string{"https://picsum.photos/id/1015/800/1200"},
		},
		{
			ID:          "2",
			Name:        "Jaqueta Jeans Clássica",
			Price:       299.90,
			Description: "A jaqueta jeans que nunca sai de moda.",
			Images:      []string{"https://picsum.photos/id/1025/800/1200"},
		},
		{
			ID:          "3",
			Name:        "Calça de Alfaiataria",
			Price:       249.50,
			Description: "Elegância e conforto em uma única peça.",
			Images:      []string{"https://picsum.photos/id/102/800/1200"},
		},
		{
			ID:          "4",
			Name:        "Blusa de Seda Pura",
			Price:       350.00,
			Description: "Toque suave e caimento perfeito.",
			Images:      []string{"https://picsum.photos/id/20/800/1200"},
		},
		{
			ID:          "5",
			Name:        "Saia Midi Plissada",
			Price:       199.99,
			Description: "Movimento e feminilidade em uma saia que combina com tudo.",
			Images:      []string{"https://picsum.photos/id/200/800/1200"},
		},
		{
			ID:          "6",
			Name:        "T-Shirt Básica de Algodão",
			Price:       89.90,
			Description: "A peça essencial em qualquer guarda-roupa.",
			Images:      []string{"https://picsum.photos/id/21/800/1200"},
		},
	}
}

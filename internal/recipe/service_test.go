package recipe

import (
	"context"
	"errors"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

// mockPantry is a mock implementation of PantryLister
type mockPantry struct {
	names []string
	err   error
}

func (m *mockPantry) Names() ([]string, error) {
	return m.names, m.err
}

// mockSource is a mock implementation of Source
type mockSource struct {
	recipes    []Suggested
	listErr    error
	hasRecipes bool
	hasErr     error
}

func (m *mockSource) ListSuggested(ctx context.Context) ([]Suggested, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	return m.recipes, nil
}

func (m *mockSource) HasRecipes(ctx context.Context) (bool, error) {
	return m.hasRecipes, m.hasErr
}

var _ = Describe("Service", func() {
	var (
		ctx     context.Context
		pantry  *mockPantry
		source  *mockSource
		service *Service
	)

	BeforeEach(func() {
		ctx = context.Background()
		pantry = &mockPantry{names: []string{"Eggs", "milk"}}
		source = &mockSource{
			recipes: []Suggested{
				{Title: "Toast", Ingredients: []string{"bread"}},
				{Title: "Custard", Ingredients: []string{"eggs", "milk", "sugar"}},
			},
			hasRecipes: true,
		}
		service = NewService(pantry, source)
	})

	Describe("Catalog", func() {
		It("ranks the built-in catalog", func() {
			ranked, err := service.Catalog(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(titles(ranked)).To(Equal([]string{"Classic Omelette"}))
		})

		When("the pantry fails", func() {
			BeforeEach(func() {
				pantry.err = errors.New("disk gone")
			})

			It("returns the error", func() {
				_, err := service.Catalog(ctx)
				Expect(err).To(MatchError(ContainSubstring("disk gone")))
			})
		})
	})

	Describe("Suggestions", func() {
		It("ranks stored suggestions", func() {
			ranked, err := service.Suggestions(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(titles(ranked)).To(Equal([]string{"Custard", "Toast"}))
			Expect(ranked[0].Score).To(Equal(2))
		})

		When("the source fails", func() {
			BeforeEach(func() {
				source.listErr = errors.New("connection refused")
			})

			It("returns an empty list", func() {
				ranked, err := service.Suggestions(ctx)
				Expect(err).NotTo(HaveOccurred())
				Expect(ranked).NotTo(BeNil())
				Expect(ranked).To(BeEmpty())
			})
		})

		When("no source is configured", func() {
			BeforeEach(func() {
				service = NewService(pantry, nil)
			})

			It("returns an empty list", func() {
				ranked, err := service.Suggestions(ctx)
				Expect(err).NotTo(HaveOccurred())
				Expect(ranked).To(BeEmpty())
			})
		})

		When("the pantry fails", func() {
			BeforeEach(func() {
				pantry.err = errors.New("disk gone")
			})

			It("returns the error", func() {
				_, err := service.Suggestions(ctx)
				Expect(err).To(HaveOccurred())
			})
		})
	})

	Describe("HasRecipes", func() {
		It("reports the source answer", func() {
			Expect(service.HasRecipes(ctx)).To(BeTrue())
		})

		It("treats errors as false", func() {
			source.hasErr = errors.New("boom")
			Expect(service.HasRecipes(ctx)).To(BeFalse())
		})

		It("is false without a source", func() {
			Expect(NewService(pantry, nil).HasRecipes(ctx)).To(BeFalse())
		})
	})
})

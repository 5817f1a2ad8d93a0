package recipe

import (
	"context"
	"database/sql"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/arrowarcher1/Fresh-from-the-Fridge/internal/ingredient"
)

var _ = Describe("SQLSource", func() {
	var (
		ctx    context.Context
		source *SQLSource
	)

	insertRecipe := func(name, ings, steps, description, minutes any) int64 {
		res, err := source.db.ExecContext(ctx,
			`INSERT INTO recipes (name, ingredients, steps, description, minutes) VALUES (?, ?, ?, ?, ?)`,
			name, ings, steps, description, minutes)
		Expect(err).NotTo(HaveOccurred())
		id, err := res.LastInsertId()
		Expect(err).NotTo(HaveOccurred())
		return id
	}

	suggest := func(recipeID int64) {
		_, err := source.db.ExecContext(ctx, `INSERT INTO sug_recipes (recipe_id) VALUES (?)`, recipeID)
		Expect(err).NotTo(HaveOccurred())
	}

	BeforeEach(func() {
		ctx = context.Background()
		var err error
		source, err = OpenSQLSource(SQLite, filepath.Join(GinkgoT().TempDir(), "recipes.db"))
		Expect(err).NotTo(HaveOccurred())
	})

	AfterEach(func() {
		if source != nil {
			source.Close()
		}
	})

	It("rejects unknown drivers", func() {
		_, err := OpenSQLSource("mysql", "")
		Expect(err).To(MatchError(ContainSubstring("unsupported recipes driver")))
	})

	When("the tables do not exist", func() {
		It("returns no suggestions", func() {
			recipes, err := source.ListSuggested(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(recipes).NotTo(BeNil())
			Expect(recipes).To(BeEmpty())
		})

		It("reports no recipes", func() {
			ok, err := source.HasRecipes(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(ok).To(BeFalse())
		})
	})

	When("the schema exists", func() {
		BeforeEach(func() {
			Expect(source.EnsureSchema(ctx)).To(Succeed())
		})

		It("is safe to create twice", func() {
			Expect(source.EnsureSchema(ctx)).To(Succeed())
		})

		It("reports recipes", func() {
			ok, err := source.HasRecipes(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(ok).To(BeTrue())
		})

		When("suggestions are stored in different shapes", func() {
			var (
				recipes []Suggested
				err     error
			)

			BeforeEach(func() {
				suggest(insertRecipe("Pancakes", `["flour","eggs","milk"]`, `["mix", "fry"]`, "Fluffy", 20))
				suggest(insertRecipe(nil, "rice, peas", "Boil rice. Add peas.", nil, nil))
				suggest(insertRecipe("Soup", `{carrot,"soy sauce"}`, nil, "", 0))
			})

			JustBeforeEach(func() {
				recipes, err = source.ListSuggested(ctx)
			})

			It("returns the newest suggestion first", func() {
				Expect(err).NotTo(HaveOccurred())
				Expect(recipes).To(HaveLen(3))
				Expect(recipes[0].Title).To(Equal("Soup"))
				Expect(recipes[2].Title).To(Equal("Pancakes"))
			})

			It("decodes JSON columns", func() {
				Expect(recipes[2].Ingredients).To(Equal([]string{"flour", "eggs", "milk"}))
				Expect(recipes[2].Steps).To(Equal([]string{"mix", "fry"}))
				Expect(recipes[2].Description).To(Equal("Fluffy"))
				Expect(recipes[2].Minutes).To(Equal(20))
			})

			It("splits delimited text and defaults missing values", func() {
				Expect(recipes[1].Title).To(Equal("Recipe"))
				Expect(recipes[1].Ingredients).To(Equal([]string{"rice", "peas"}))
				Expect(recipes[1].Steps).To(Equal([]string{"Boil rice", "Add peas"}))
				Expect(recipes[1].Description).To(BeEmpty())
				Expect(recipes[1].Minutes).To(Equal(0))
			})

			It("decodes array literals", func() {
				Expect(recipes[0].Ingredients).To(Equal([]string{"carrot", "soy sauce"}))
				Expect(recipes[0].Steps).To(BeEmpty())
			})

			It("links suggestions to recipes", func() {
				Expect(recipes[0].SugID).To(Equal(int64(3)))
				Expect(recipes[0].RecipeID).To(Equal(int64(3)))
			})
		})

		When("there are more than 100 suggestions", func() {
			BeforeEach(func() {
				id := insertRecipe("Toast", "bread", "toast", nil, nil)
				for i := 0; i < 105; i++ {
					suggest(id)
				}
			})

			It("returns the latest 100", func() {
				recipes, err := source.ListSuggested(ctx)
				Expect(err).NotTo(HaveOccurred())
				Expect(recipes).To(HaveLen(100))
				Expect(recipes[0].SugID).To(Equal(int64(105)))
			})
		})
	})

	When("the database is closed", func() {
		It("returns an error", func() {
			source.Close()
			_, err := source.ListSuggested(ctx)
			Expect(err).To(HaveOccurred())
		})
	})
})

var _ = Describe("column", func() {
	DescribeTable("maps stored text",
		func(ns sql.NullString, want ingredient.Kind) {
			Expect(column(ns).Kind()).To(Equal(want))
		},
		Entry("NULL", sql.NullString{}, ingredient.KindEmpty),
		Entry("array literal", sql.NullString{String: "{a,b}", Valid: true}, ingredient.KindList),
		Entry("JSON text", sql.NullString{String: `["a"]`, Valid: true}, ingredient.KindText),
	)
})

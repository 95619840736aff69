package validation_test

import (
	"errors"
	"testing"

	"go-collab-backend/pkg/validation"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
)

type cardForm struct {
	Title    string `validate:"required,max=120"`
	WhoPosts string `validate:"omitempty,oneof=creator1 creator2 both"`
}

func TestFormatValidationErrors(t *testing.T) {
	validate := validator.New()

	t.Run("Should translate tags into friendly messages", func(t *testing.T) {
		err := validate.Struct(&cardForm{WhoPosts: "nobody"})
		assert.Error(t, err)

		messages := validation.FormatValidationErrors(err)
		assert.Len(t, messages, 2)
		assert.Contains(t, messages, "Title: This field is required")
		assert.Contains(t, messages, "Who posts: Must be one of: creator1, creator2, both")
	})

	t.Run("Should report string length limits in characters", func(t *testing.T) {
		long := make([]byte, 130)
		for i := range long {
			long[i] = 'a'
		}
		err := validate.Struct(&cardForm{Title: string(long)})
		assert.Error(t, err)

		messages := validation.FormatValidationErrors(err)
		assert.Equal(t, []string{"Title: Must be at most 120 characters"}, messages)
	})

	t.Run("Should space out unmapped field names", func(t *testing.T) {
		type form struct {
			ProofLink string `validate:"required"`
		}
		err := validate.Struct(&form{})
		assert.Error(t, err)

		messages := validation.FormatValidationErrors(err)
		assert.Equal(t, []string{"Proof Link: This field is required"}, messages)
	})

	t.Run("Should pass through non-validation errors", func(t *testing.T) {
		messages := validation.FormatValidationErrors(errors.New("boom"))
		assert.Equal(t, []string{"boom"}, messages)
	})
}

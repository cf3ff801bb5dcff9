package corpus

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name  string
		input string
		fold  bool
		want  string
	}{
		{"lowercases", "Brigid", false, "brigid"},
		{"drops non-letters", "Máel-Coluim 2 (?)", false, "máelcoluim"},
		{"keeps accents without folding", "Éadaoin", false, "éadaoin"},
		{"folds accents", "Éadaoin", true, "eadaoin"},
		{"folds lowercase accents", "Seán", true, "sean"},
		{"empty", "  -- ", false, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Normalize(tt.input, tt.fold))
		})
	}
}

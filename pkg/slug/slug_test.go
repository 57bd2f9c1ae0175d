package slug

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFrom(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"Labrador Retriever", "labrador-retriever"},
		{"Berger Allemand", "berger-allemand"},
		{"Élevage de l'Atlas", "elevage-de-l-atlas"},
		{"  Caniche   Nain  ", "caniche-nain"},
		{"Ça c'est un élevage!", "ca-c-est-un-elevage"},
		{"UPPER case", "upper-case"},
		{"déjà-vu", "deja-vu"},
		{"", ""},
		{"!!!", ""},
	}
	for _, tc := range cases {
		t.Run(tc.in, func(t *testing.T) {
			assert.Equal(t, tc.want, From(tc.in))
		})
	}
}

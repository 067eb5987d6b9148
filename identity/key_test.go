package identity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKey(t *testing.T) {
	tests := []struct {
		name    string
		who     string
		address string
		want    string
	}{
		{"name and address", "Max Mustermann", "Hauptstraße 12", "max_mustermann_hauptstraße_12"},
		{"collapses whitespace", "  Max   Mustermann ", "Hauptstraße\t12", "max_mustermann_hauptstraße_12"},
		{"missing address", "Muster GmbH", "", "muster_gmbh_"},
		{"umlauts lowercased", "ÖZTÜRK", "Ring 1", "öztürk_ring_1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Key(tt.who, tt.address))
		})
	}
}

func TestKey_Deterministic(t *testing.T) {
	assert.Equal(t, Key("Erika Musterfrau", "Am Markt 3"), Key("erika musterfrau", "am  markt 3"))
	assert.NotEqual(t, Key("Erika Musterfrau", "Am Markt 3"), Key("Erika Musterfrau", "Am Markt 4"))
}

func TestFingerprint(t *testing.T) {
	fp := Fingerprint("max_mustermann_hauptstraße_12")
	assert.Len(t, fp, 32)
	assert.Equal(t, fp, Fingerprint("max_mustermann_hauptstraße_12"))
	assert.NotEqual(t, fp, Fingerprint("max_mustermann_hauptstraße_13"))
}

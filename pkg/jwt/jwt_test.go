package jwt_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/crm-farmaceutico/pkg/jwt"
)

func TestGenerateParse(t *testing.T) {
	tok, err := jwt.Generate("s3cret", "u1", "ph1", "vendedor", "crm-farmaceutico", 5)
	require.NoError(t, err)

	userID, pharmacyID, role, err := jwt.Parse("s3cret", tok)

	require.NoError(t, err)
	assert.Equal(t, "u1", userID)
	assert.Equal(t, "ph1", pharmacyID)
	assert.Equal(t, "vendedor", role)
}

func TestParse_Rechazos(t *testing.T) {
	tok, err := jwt.Generate("s3cret", "u1", "ph1", "admin", "crm", 5)
	require.NoError(t, err)
	expired, err := jwt.Generate("s3cret", "u1", "ph1", "admin", "crm", -1)
	require.NoError(t, err)
	noPharmacy, err := jwt.Generate("s3cret", "u1", "", "admin", "crm", 5)
	require.NoError(t, err)

	tests := []struct {
		name, secret, token string
	}{
		{"firma incorrecta", "otro", tok},
		{"expirado", "s3cret", expired},
		{"sin farmacia", "s3cret", noPharmacy},
		{"basura", "s3cret", "abc.def.ghi"},
		{"secret vacío", "", tok},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, _, err := jwt.Parse(tt.secret, tt.token)
			assert.Error(t, err)
		})
	}
}

func TestGenerate_SecretVacio(t *testing.T) {
	_, err := jwt.Generate("", "u1", "ph1", "admin", "crm", 5)
	assert.Error(t, err)
}

package geo

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func fullAddress() Address {
	return Address{
		Street: "Siempreviva", Number: 123, PostalCode: 5501, Floor: 1, Apartment: 3,
		Locality: &Locality{ID: 1, Name: "Saavedra", Province: &Province{
			ID: 1, Name: "Buenos Aires", Country: &Country{ID: 1, Name: "Argentina"},
		}},
	}
}

func TestAddressValidate(t *testing.T) {
	t.Run("complete", func(t *testing.T) {
		a := fullAddress()
		require.NoError(t, a.Validate())
		require.True(t, a.Complete())
		require.Equal(t, "Siempreviva 123 (1-3), Saavedra, Buenos Aires, Argentina", a.String())
	})

	t.Run("no locality", func(t *testing.T) {
		a := fullAddress()
		a.Locality = nil
		require.ErrorIs(t, a.Validate(), ErrMissingLocality)
		require.False(t, a.Complete())
	})

	t.Run("no province", func(t *testing.T) {
		a := fullAddress()
		a.Locality.Province = nil
		require.ErrorIs(t, a.Validate(), ErrMissingProvince)
	})

	t.Run("no country", func(t *testing.T) {
		a := fullAddress()
		a.Locality.Province.Country = nil
		require.ErrorIs(t, a.Validate(), ErrMissingCountry)
	})
}

// Package wire holds the JSON shapes the backend shares across resources.
package wire

import "github.com/dwikikusuma/buensabor-storefront/internal/geo"

type Pais struct {
	ID        int64  `json:"id"`
	Eliminado bool   `json:"eliminado"`
	Nombre    string `json:"nombre"`
}

type Provincia struct {
	ID        int64  `json:"id"`
	Eliminado bool   `json:"eliminado"`
	Nombre    string `json:"nombre"`
	Pais      *Pais  `json:"pais"`
}

type Localidad struct {
	ID        int64      `json:"id"`
	Eliminado bool       `json:"eliminado"`
	Nombre    string     `json:"nombre"`
	Provincia *Provincia `json:"provincia"`
}

type Domicilio struct {
	ID        int64      `json:"id"`
	Eliminado bool       `json:"eliminado"`
	Calle     string     `json:"calle"`
	Numero    int        `json:"numero"`
	CP        int        `json:"cp"`
	Piso      int        `json:"piso"`
	NroDepto  int        `json:"nroDepto"`
	Localidad *Localidad `json:"localidad"`
}

func (d Domicilio) ToDomain() geo.Address {
	a := geo.Address{
		ID:         d.ID,
		Street:     d.Calle,
		Number:     d.Numero,
		PostalCode: d.CP,
		Floor:      d.Piso,
		Apartment:  d.NroDepto,
	}
	if l := d.Localidad; l != nil {
		a.Locality = &geo.Locality{ID: l.ID, Name: l.Nombre}
		if p := l.Provincia; p != nil {
			a.Locality.Province = &geo.Province{ID: p.ID, Name: p.Nombre}
			if c := p.Pais; c != nil {
				a.Locality.Province.Country = &geo.Country{ID: c.ID, Name: c.Nombre}
			}
		}
	}
	return a
}

func FromAddress(a geo.Address) Domicilio {
	d := Domicilio{
		ID:       a.ID,
		Calle:    a.Street,
		Numero:   a.Number,
		CP:       a.PostalCode,
		Piso:     a.Floor,
		NroDepto: a.Apartment,
	}
	if l := a.Locality; l != nil {
		d.Localidad = &Localidad{ID: l.ID, Nombre: l.Name}
		if p := l.Province; p != nil {
			d.Localidad.Provincia = &Provincia{ID: p.ID, Nombre: p.Name}
			if c := p.Country; c != nil {
				d.Localidad.Provincia.Pais = &Pais{ID: c.ID, Nombre: c.Name}
			}
		}
	}
	return d
}

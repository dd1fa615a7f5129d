package rest

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/dwikikusuma/buensabor-storefront/internal/customer/app"
	"github.com/dwikikusuma/buensabor-storefront/internal/customer/domain"
	"github.com/dwikikusuma/buensabor-storefront/pkg/restclient"
	"github.com/dwikikusuma/buensabor-storefront/pkg/restclient/wire"
)

const dateLayout = "2006-01-02"

// ClientRegistry talks to the backend /cliente resource.
type ClientRegistry struct {
	c   *restclient.Client
	now func() time.Time
}

func NewClientRegistry(c *restclient.Client) *ClientRegistry {
	return &ClientRegistry{c: c, now: time.Now}
}

var _ app.Backend = (*ClientRegistry)(nil)

type usuario struct {
	ID        *int64 `json:"id"`
	Eliminado bool   `json:"eliminado"`
	Auth0ID   string `json:"auth0Id"`
	UserName  string `json:"userName"`
}

type cliente struct {
	ID          *int64           `json:"id"`
	Eliminado   bool             `json:"eliminado"`
	Nombre      string           `json:"nombre"`
	Apellido    string           `json:"apellido"`
	Telefono    string           `json:"telefono"`
	Email       string           `json:"email"`
	Contrasenia string           `json:"contrasenia,omitempty"`
	FechaNac    string           `json:"fechaNac"`
	Usuario     *usuario         `json:"usuario,omitempty"`
	Domicilios  []wire.Domicilio `json:"domicilios"`
}

type idResponse struct {
	ID int64 `json:"id"`
}

func (r *ClientRegistry) Login(ctx context.Context, email, password string) (int64, error) {
	var out idResponse
	err := r.c.PostForm(ctx, "/cliente/login", map[string]string{
		"email":       email,
		"contrasenia": password,
	}, &out)
	if restclient.IsStatus(err, http.StatusBadRequest, http.StatusUnauthorized, http.StatusNotFound) {
		return 0, fmt.Errorf("%w: %v", app.ErrInvalidCredentials, err)
	}
	if err != nil {
		return 0, err
	}
	return out.ID, nil
}

func (r *ClientRegistry) Register(ctx context.Context, reg domain.Registration) (int64, error) {
	payload := cliente{
		Nombre:      reg.FirstName,
		Apellido:    reg.LastName,
		Telefono:    reg.Phone,
		Email:       reg.Email,
		Contrasenia: reg.Password,
		FechaNac:    r.now().Format(dateLayout),
		Usuario:     &usuario{UserName: reg.Email},
		Domicilios:  make([]wire.Domicilio, 0, len(reg.Addresses)),
	}
	for _, a := range reg.Addresses {
		payload.Domicilios = append(payload.Domicilios, wire.FromAddress(a))
	}

	data, err := json.Marshal(payload)
	if err != nil {
		return 0, fmt.Errorf("encode registration: %w", err)
	}

	var out idResponse
	err = r.c.PostForm(ctx, "/cliente/register", map[string]string{"data": string(data)}, &out)
	if restclient.IsStatus(err, http.StatusBadRequest, http.StatusConflict, http.StatusUnprocessableEntity) {
		return 0, fmt.Errorf("%w: %v", app.ErrRegistrationRejected, err)
	}
	if err != nil {
		return 0, err
	}
	return out.ID, nil
}

func (r *ClientRegistry) Client(ctx context.Context, id int64) (domain.Client, error) {
	var row cliente
	err := r.c.GetJSON(ctx, fmt.Sprintf("/cliente/%d", id), &row)
	if restclient.IsStatus(err, http.StatusNotFound) {
		return domain.Client{}, app.ErrNotFound
	}
	if err != nil {
		return domain.Client{}, err
	}

	c := domain.Client{
		ID:        id,
		FirstName: row.Nombre,
		LastName:  row.Apellido,
		Phone:     row.Telefono,
		Email:     row.Email,
	}
	if t, err := time.Parse(dateLayout, row.FechaNac); err == nil {
		c.BirthDate = t
	}
	for _, d := range row.Domicilios {
		if d.Eliminado {
			continue
		}
		c.Addresses = append(c.Addresses, d.ToDomain())
	}
	return c, nil
}

package rest

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/dwikikusuma/buensabor-storefront/pkg/restclient"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, routes map[string]string) *CatalogClient {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, ok := routes[r.URL.Path]
		if !ok {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return NewCatalogClient(restclient.New(srv.URL, time.Second, nil))
}

func TestListBranches(t *testing.T) {
	c := newTestClient(t, map[string]string{
		"/sucursal/listByEmpresa/1": `[
			{"id":1,"nombre":"Centro","domicilio":{"calle":"San Martín","numero":100,
				"localidad":{"id":1,"nombre":"Mendoza","provincia":{"id":1,"nombre":"Mendoza","pais":{"id":1,"nombre":"Argentina"}}}}},
			{"id":2,"nombre":"Cerrada","eliminado":true}
		]`,
	})

	branches, err := c.ListBranches(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, branches, 1)
	require.Equal(t, "Centro", branches[0].Name)
	require.True(t, branches[0].Address.Complete())
}

func TestListCategories(t *testing.T) {
	c := newTestClient(t, map[string]string{
		"/categoria/listBySucursal/3": `[
			{"id":1,"denominacion":"Comidas","padreId":null,
			 "articulos":[{"id":10,"denominacion":"Papas","precioVenta":3.5,"imagenes":[{"url":"http://img/papas.png"}]}],
			 "subCategorias":[
				{"id":2,"denominacion":"Hamburguesas","padreId":1,
				 "articulos":[{"id":20,"denominacion":"Burger","precioVenta":9.99,"precioPromocional":8.5}],
				 "subCategorias":[]}
			 ]},
			{"id":9,"denominacion":"Vieja","eliminado":true}
		]`,
	})

	cats, err := c.ListCategories(context.Background(), 3)
	require.NoError(t, err)
	require.Len(t, cats, 1)

	comidas := cats[0]
	require.Nil(t, comidas.ParentID)
	require.Equal(t, "3.5", comidas.Articles[0].SalePrice.String())
	require.Equal(t, "http://img/papas.png", comidas.Articles[0].Images[0].URL)
	require.Equal(t, "Comidas", comidas.Articles[0].CategoryName)

	hamb := comidas.Subcategories[0]
	require.Equal(t, int64(1), *hamb.ParentID)
	require.Equal(t, "8.5", hamb.Articles[0].PromoPrice.String())
}

func TestListPromotions(t *testing.T) {
	c := newTestClient(t, map[string]string{
		"/promocion/listBySucursal/3": `[
			{"id":7,"denominacion":"Combo","precioPromocional":25,
			 "promocionDetalles":[
				{"cantidad":2,"articulo":{"id":10,"denominacion":"Papas","precioVenta":3}},
				{"cantidad":1,"articulo":{"id":60,"denominacion":"Gaseosa","precioVenta":2}}
			 ]}
		]`,
	})

	promos, err := c.ListPromotions(context.Background(), 3)
	require.NoError(t, err)
	require.Len(t, promos, 1)
	require.Equal(t, "25", promos[0].PromoPrice.String())
	require.Len(t, promos[0].Details, 2)
	require.Equal(t, 2, promos[0].Details[0].Quantity)
	require.Equal(t, "Gaseosa", promos[0].Details[1].Article.Name)
}

func TestListCategoriesNotFound(t *testing.T) {
	c := newTestClient(t, nil)
	_, err := c.ListCategories(context.Background(), 42)
	require.True(t, restclient.IsStatus(err, http.StatusNotFound))
}

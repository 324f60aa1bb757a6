package controllers_test

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/yeremiapane/kokum-coast/controllers"
	"github.com/yeremiapane/kokum-coast/database"
	"github.com/yeremiapane/kokum-coast/utils"
)

func setupMenuRouter(store database.Store) *gin.Engine {
	r := newRouter()
	menuCtrl := controllers.NewMenuController(store)
	r.GET("/menu", menuCtrl.GetAllMenus)
	r.POST("/menu", menuCtrl.CreateMenu)
	r.DELETE("/menu/:id", menuCtrl.DeleteMenu)
	r.POST("/menu/seed", menuCtrl.SeedMenu)
	r.POST("/menu/import", menuCtrl.ImportMenu)
	return r
}

func TestMenuCRUD(t *testing.T) {
	utils.InitLogger()
	router := setupMenuRouter(setupTestStore(t))

	// Create
	w := doJSON(t, router, http.MethodPost, "/menu", map[string]interface{}{
		"name":        "Bombil Fry",
		"category":    "Starters",
		"price":       340,
		"veg":         false,
		"spicy_level": 2,
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	id, _ := decodeObject(t, w)["id"].(string)
	assert.True(t, primitive.IsValidObjectID(id))

	w = doJSON(t, router, http.MethodPost, "/menu", map[string]interface{}{
		"name": "Aamras", "category": "Desserts", "price": 210, "veg": true,
	})
	require.Equal(t, http.StatusOK, w.Code)

	// List sorted by name
	w = doJSON(t, router, http.MethodGet, "/menu", nil)
	require.Equal(t, http.StatusOK, w.Code)
	items := decodeList(t, w)
	require.Len(t, items, 2)
	assert.Equal(t, "Aamras", items[0]["name"])
	assert.Equal(t, "Bombil Fry", items[1]["name"])
	assert.Equal(t, id, items[1]["id"])
	assert.NotContains(t, items[1], "_id")
	assert.Equal(t, []interface{}{}, items[1]["tags"])
	assert.Nil(t, items[1]["description"])

	// Filter by category
	w = doJSON(t, router, http.MethodGet, "/menu?category=Desserts", nil)
	items = decodeList(t, w)
	require.Len(t, items, 1)
	assert.Equal(t, "Aamras", items[0]["name"])

	// Delete
	w = doJSON(t, router, http.MethodDelete, "/menu/"+id, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"ok":true}`, w.Body.String())

	w = doJSON(t, router, http.MethodDelete, "/menu/"+id, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = doJSON(t, router, http.MethodDelete, "/menu/not-an-id", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestGetAllMenusEmpty(t *testing.T) {
	router := setupMenuRouter(setupTestStore(t))

	w := doJSON(t, router, http.MethodGet, "/menu?category=Nothing", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[]`, w.Body.String())
}

func TestCreateMenuValidation(t *testing.T) {
	router := setupMenuRouter(setupTestStore(t))

	w := doJSON(t, router, http.MethodPost, "/menu", map[string]interface{}{
		"category":    "Starters",
		"price":       -1,
		"spicy_level": 6,
	})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Equal(t, []string{"name", "price", "spicy_level"}, errorFields(t, w))

	w = doJSON(t, router, http.MethodPost, "/menu", `{"name": "Chai", "category": "Beverages", "price": "cheap"}`)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Equal(t, []string{"price"}, errorFields(t, w))

	w = doJSON(t, router, http.MethodPost, "/menu", `{"name": `)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	w = doJSON(t, router, http.MethodGet, "/menu", nil)
	assert.JSONEq(t, `[]`, w.Body.String())
}

func TestSeedMenuEndpoint(t *testing.T) {
	router := setupMenuRouter(setupTestStore(t))

	w := doJSON(t, router, http.MethodPost, "/menu/seed", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"inserted":6}`, w.Body.String())

	w = doJSON(t, router, http.MethodPost, "/menu/seed", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"message":"Menu already seeded"}`, w.Body.String())

	w = doJSON(t, router, http.MethodGet, "/menu", nil)
	assert.Len(t, decodeList(t, w), 6)
}

func uploadSheet(t *testing.T, router http.Handler, field string, rows ...[]interface{}) *httptest.ResponseRecorder {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()
	for i, row := range rows {
		cellRef, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow("Sheet1", cellRef, &row))
	}
	sheet, err := f.WriteToBuffer()
	require.NoError(t, err)

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile(field, "menu.xlsx")
	require.NoError(t, err)
	_, err = part.Write(sheet.Bytes())
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/menu/import", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestImportMenuEndpoint(t *testing.T) {
	router := setupMenuRouter(setupTestStore(t))
	header := []interface{}{"name", "category", "price", "description", "veg", "spicy_level", "tags", "image"}

	w := uploadSheet(t, router, "file", header,
		[]interface{}{"Bombil Fry", "Starters", 340, "", "no", 2, "coastal"},
		[]interface{}{"Aamras Puri", "Desserts", 210, "", "yes"},
	)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.JSONEq(t, `{"inserted":2}`, w.Body.String())

	w = uploadSheet(t, router, "file", header,
		[]interface{}{"Solkadhi Shot", "Beverages", 90},
		[]interface{}{"Kharvas", "Desserts", "free"},
	)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Equal(t, []string{"row 3: price"}, errorFields(t, w))

	w = uploadSheet(t, router, "upload", header, []interface{}{"Kharvas", "Desserts", 150})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Equal(t, []string{"file"}, errorFields(t, w))

	w = doJSON(t, router, http.MethodGet, "/menu", nil)
	assert.Len(t, decodeList(t, w), 2)
}

func TestImportMenuRejectsInfinitePrice(t *testing.T) {
	router := setupMenuRouter(setupTestStore(t))
	header := []interface{}{"name", "category", "price"}

	w := uploadSheet(t, router, "file", header, []interface{}{"Golden Thali", "Mains", "Inf"})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Equal(t, []string{"row 2: price"}, errorFields(t, w))

	w = doJSON(t, router, http.MethodGet, "/menu", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[]`, w.Body.String())
}

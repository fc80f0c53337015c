package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/busdepo/marketplace-api/internal/db"
	"github.com/busdepo/marketplace-api/internal/events"
	"github.com/busdepo/marketplace-api/internal/middleware"
	"github.com/busdepo/marketplace-api/internal/models"
)

type testEnvelope struct {
	Status     string          `json:"status"`
	Message    string          `json:"message"`
	Data       json.RawMessage `json:"data"`
	Pagination *Pagination     `json:"pagination"`
	TotalCount *int64          `json:"totalCount"`
}

func decodeEnvelope(t *testing.T, w *httptest.ResponseRecorder) testEnvelope {
	t.Helper()
	var env testEnvelope
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	return env
}

func withClaims(req *http.Request, userID string) *http.Request {
	ctx := context.WithValue(req.Context(), middleware.UserContextKey, &models.Claims{
		UserID:   userID,
		FullName: "Test User",
	})
	return req.WithContext(ctx)
}

func jsonBody(t *testing.T, payload interface{}) *bytes.Buffer {
	t.Helper()
	data, err := json.Marshal(payload)
	assert.NoError(t, err)
	return bytes.NewBuffer(data)
}

func validVehiclePayload() map[string]interface{} {
	return map[string]interface{}{
		"title":    "Tata Starbus 2018",
		"make":     "Tata",
		"model":    "Starbus",
		"price":    1200000.0,
		"location": "Chennai, Tamil Nadu",
		"type":     "bus",
		"imageUrl": testImage,
	}
}

func newVehicleHandler() (*VehicleHandler, *MockVehicleCollection, *MockMakeCollection, *MockStorage) {
	vehicles := new(MockVehicleCollection)
	makes := new(MockMakeCollection)
	store := new(MockStorage)
	h := NewVehicleHandler(vehicles, makes, store, "vehicles", &events.Publisher{})
	return h, vehicles, makes, store
}

func TestVehicleHandler_Create(t *testing.T) {
	callerID := primitive.NewObjectID()

	t.Run("successful create", func(t *testing.T) {
		h, vehicles, makes, store := newVehicleHandler()
		makes.On("MakeExists", mock.Anything, "Tata").Return(true, nil)
		store.On("Upload", mock.Anything, "vehicles", mock.MatchedBy(func(key string) bool {
			return strings.HasSuffix(key, ".png")
		}), mock.Anything, "image/png").Return("http://localhost:9000/vehicles/new.png", nil)
		vehicles.On("InsertVehicle", mock.Anything, mock.Anything).Return(nil)

		req := withClaims(httptest.NewRequest("POST", "/vehicle/add", jsonBody(t, validVehiclePayload())), callerID.Hex())
		w := httptest.NewRecorder()
		h.Create(w, req)

		assert.Equal(t, http.StatusCreated, w.Code)
		env := decodeEnvelope(t, w)
		assert.Equal(t, "success", env.Status)

		var vehicle models.Vehicle
		assert.NoError(t, json.Unmarshal(env.Data, &vehicle))
		assert.Len(t, vehicle.ImageURL, 1)
		assert.Equal(t, "http://localhost:9000/vehicles/new.png", vehicle.ImageURL[0])
		assert.Equal(t, models.StatusActive, vehicle.Status)
		assert.Equal(t, callerID, vehicle.UserID)
		assert.Equal(t, models.FuelDefault, vehicle.FuelType)
		vehicles.AssertExpectations(t)
	})

	t.Run("missing image", func(t *testing.T) {
		h, vehicles, makes, _ := newVehicleHandler()
		payload := validVehiclePayload()
		delete(payload, "imageUrl")

		req := withClaims(httptest.NewRequest("POST", "/vehicle/add", jsonBody(t, payload)), callerID.Hex())
		w := httptest.NewRecorder()
		h.Create(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		vehicles.AssertNotCalled(t, "InsertVehicle", mock.Anything, mock.Anything)
		makes.AssertNotCalled(t, "MakeExists", mock.Anything, mock.Anything)
	})

	t.Run("disallowed make", func(t *testing.T) {
		h, vehicles, makes, store := newVehicleHandler()
		makes.On("MakeExists", mock.Anything, "Tata").Return(false, nil)

		req := withClaims(httptest.NewRequest("POST", "/vehicle/add", jsonBody(t, validVehiclePayload())), callerID.Hex())
		w := httptest.NewRecorder()
		h.Create(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		store.AssertNotCalled(t, "Upload", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
		vehicles.AssertNotCalled(t, "InsertVehicle", mock.Anything, mock.Anything)
	})

	t.Run("malformed image payload", func(t *testing.T) {
		h, vehicles, makes, _ := newVehicleHandler()
		makes.On("MakeExists", mock.Anything, "Tata").Return(true, nil)
		payload := validVehiclePayload()
		payload["imageUrl"] = "not-a-data-uri"

		req := withClaims(httptest.NewRequest("POST", "/vehicle/add", jsonBody(t, payload)), callerID.Hex())
		w := httptest.NewRecorder()
		h.Create(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		vehicles.AssertNotCalled(t, "InsertVehicle", mock.Anything, mock.Anything)
	})

	t.Run("invalid fuel type", func(t *testing.T) {
		h, vehicles, _, _ := newVehicleHandler()
		payload := validVehiclePayload()
		payload["fuel_type"] = "Steam"

		req := withClaims(httptest.NewRequest("POST", "/vehicle/add", jsonBody(t, payload)), callerID.Hex())
		w := httptest.NewRecorder()
		h.Create(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		vehicles.AssertNotCalled(t, "InsertVehicle", mock.Anything, mock.Anything)
	})

	t.Run("missing user context", func(t *testing.T) {
		h, _, _, _ := newVehicleHandler()
		req := httptest.NewRequest("POST", "/vehicle/add", jsonBody(t, validVehiclePayload()))
		w := httptest.NewRecorder()
		h.Create(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

func TestVehicleHandler_GetByID(t *testing.T) {
	id := primitive.NewObjectID()

	t.Run("found", func(t *testing.T) {
		h, vehicles, _, _ := newVehicleHandler()
		vehicles.On("FindVehicleByID", mock.Anything, id.Hex()).Return(&models.Vehicle{ID: id, Title: "Bus"}, nil)

		req := mux.SetURLVars(httptest.NewRequest("GET", "/vehicle/"+id.Hex(), nil), map[string]string{"id": id.Hex()})
		w := httptest.NewRecorder()
		h.GetByID(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("not found", func(t *testing.T) {
		h, vehicles, _, _ := newVehicleHandler()
		vehicles.On("FindVehicleByID", mock.Anything, id.Hex()).Return(nil, db.ErrNotFound)

		req := mux.SetURLVars(httptest.NewRequest("GET", "/vehicle/"+id.Hex(), nil), map[string]string{"id": id.Hex()})
		w := httptest.NewRecorder()
		h.GetByID(w, req)

		assert.Equal(t, http.StatusNotFound, w.Code)
		env := decodeEnvelope(t, w)
		assert.Equal(t, "error", env.Status)
	})
}

func TestVehicleHandler_ListAll(t *testing.T) {
	t.Run("second page of fifteen records", func(t *testing.T) {
		h, vehicles, _, _ := newVehicleHandler()
		pageTwo := make([]models.Vehicle, 5)
		vehicles.On("FindVehicles", mock.Anything, db.NotSoldFilter(), db.Page{Number: 2, Size: 10}).Return(pageTwo, nil)
		vehicles.On("CountVehicles", mock.Anything, db.NotSoldFilter()).Return(int64(15), nil)

		req := httptest.NewRequest("GET", "/vehicle/all-vehicles?page=2&limit=10", nil)
		w := httptest.NewRecorder()
		h.ListAll(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		env := decodeEnvelope(t, w)
		assert.Equal(t, int64(2), env.Pagination.TotalPages)
		assert.Equal(t, int64(15), env.Pagination.TotalCount)
		assert.Equal(t, 2, env.Pagination.CurrentPage)
		assert.Equal(t, 10, env.Pagination.PageSize)

		var page []models.Vehicle
		assert.NoError(t, json.Unmarshal(env.Data, &page))
		assert.Len(t, page, 5)
	})

	t.Run("invalid page parameter", func(t *testing.T) {
		h, vehicles, _, _ := newVehicleHandler()

		req := httptest.NewRequest("GET", "/vehicle/all-vehicles?page=0", nil)
		w := httptest.NewRecorder()
		h.ListAll(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		vehicles.AssertNotCalled(t, "FindVehicles", mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestVehicleHandler_ListByUser(t *testing.T) {
	callerID := primitive.NewObjectID()

	h, vehicles, _, _ := newVehicleHandler()
	vehicles.On("FindVehicles", mock.Anything, db.OwnerFilter(callerID), db.Page{Number: 1, Size: 10}).Return([]models.Vehicle{{UserID: callerID}}, nil)
	vehicles.On("CountVehicles", mock.Anything, db.OwnerFilter(callerID)).Return(int64(1), nil)

	req := withClaims(httptest.NewRequest("GET", "/vehicle/user/all", nil), callerID.Hex())
	w := httptest.NewRecorder()
	h.ListByUser(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	vehicles.AssertExpectations(t)
}

func TestVehicleHandler_Update(t *testing.T) {
	id := primitive.NewObjectID()
	ownerID := primitive.NewObjectID()
	existing := &models.Vehicle{
		ID:       id,
		UserID:   ownerID,
		ImageURL: []string{"http://localhost:9000/vehicles/" + id.Hex() + ".png"},
	}

	t.Run("new image replaces stored set", func(t *testing.T) {
		h, vehicles, _, store := newVehicleHandler()
		vehicles.On("FindVehicleByID", mock.Anything, id.Hex()).Return(existing, nil)
		store.On("Upload", mock.Anything, "vehicles", mock.MatchedBy(func(key string) bool {
			return strings.HasPrefix(key, id.Hex()+"-") && strings.HasSuffix(key, ".png")
		}), mock.Anything, "image/png").Return("http://localhost:9000/vehicles/replacement.png", nil)
		store.On("Remove", mock.Anything, "vehicles", id.Hex()+".png").Return(nil)
		vehicles.On("UpdateVehicleFields", mock.Anything, id.Hex(), mock.MatchedBy(func(fields bson.M) bool {
			urls, ok := fields["imageUrl"].([]string)
			return ok && len(urls) == 1 && urls[0] == "http://localhost:9000/vehicles/replacement.png"
		})).Return(&models.Vehicle{ID: id, UserID: ownerID, ImageURL: []string{"http://localhost:9000/vehicles/replacement.png"}}, nil)

		body := jsonBody(t, map[string]interface{}{"imageUrl": testImage})
		req := withClaims(mux.SetURLVars(httptest.NewRequest("PUT", "/vehicle/"+id.Hex(), body), map[string]string{"id": id.Hex()}), ownerID.Hex())
		w := httptest.NewRecorder()
		h.Update(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		env := decodeEnvelope(t, w)
		var updated models.Vehicle
		assert.NoError(t, json.Unmarshal(env.Data, &updated))
		assert.Equal(t, []string{"http://localhost:9000/vehicles/replacement.png"}, updated.ImageURL)
		store.AssertExpectations(t)
	})

	t.Run("partial field update", func(t *testing.T) {
		h, vehicles, _, _ := newVehicleHandler()
		vehicles.On("FindVehicleByID", mock.Anything, id.Hex()).Return(existing, nil)
		vehicles.On("UpdateVehicleFields", mock.Anything, id.Hex(), mock.MatchedBy(func(fields bson.M) bool {
			return fields["status"] == "sold" && len(fields) == 1
		})).Return(&models.Vehicle{ID: id, UserID: ownerID, Status: "sold"}, nil)

		body := jsonBody(t, map[string]interface{}{"status": "sold"})
		req := withClaims(mux.SetURLVars(httptest.NewRequest("PUT", "/vehicle/"+id.Hex(), body), map[string]string{"id": id.Hex()}), ownerID.Hex())
		w := httptest.NewRecorder()
		h.Update(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		vehicles.AssertExpectations(t)
	})

	t.Run("echoed image array is accepted and ignored", func(t *testing.T) {
		h, vehicles, _, store := newVehicleHandler()
		vehicles.On("FindVehicleByID", mock.Anything, id.Hex()).Return(existing, nil)
		vehicles.On("UpdateVehicleFields", mock.Anything, id.Hex(), mock.MatchedBy(func(fields bson.M) bool {
			_, hasImage := fields["imageUrl"]
			return !hasImage && fields["status"] == "sold"
		})).Return(&models.Vehicle{ID: id, UserID: ownerID, Status: "sold", ImageURL: existing.ImageURL}, nil)

		body := jsonBody(t, map[string]interface{}{
			"imageUrl": existing.ImageURL,
			"status":   "sold",
		})
		req := withClaims(mux.SetURLVars(httptest.NewRequest("PUT", "/vehicle/"+id.Hex(), body), map[string]string{"id": id.Hex()}), ownerID.Hex())
		w := httptest.NewRecorder()
		h.Update(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		store.AssertNotCalled(t, "Upload", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
		store.AssertNotCalled(t, "Remove", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("disallowed make on update", func(t *testing.T) {
		h, vehicles, makes, _ := newVehicleHandler()
		vehicles.On("FindVehicleByID", mock.Anything, id.Hex()).Return(existing, nil)
		makes.On("MakeExists", mock.Anything, "Unknown").Return(false, nil)

		body := jsonBody(t, map[string]interface{}{"make": "Unknown"})
		req := withClaims(mux.SetURLVars(httptest.NewRequest("PUT", "/vehicle/"+id.Hex(), body), map[string]string{"id": id.Hex()}), ownerID.Hex())
		w := httptest.NewRecorder()
		h.Update(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		vehicles.AssertNotCalled(t, "UpdateVehicleFields", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("not found", func(t *testing.T) {
		h, vehicles, _, _ := newVehicleHandler()
		vehicles.On("FindVehicleByID", mock.Anything, id.Hex()).Return(nil, db.ErrNotFound)

		body := jsonBody(t, map[string]interface{}{"status": "sold"})
		req := withClaims(mux.SetURLVars(httptest.NewRequest("PUT", "/vehicle/"+id.Hex(), body), map[string]string{"id": id.Hex()}), ownerID.Hex())
		w := httptest.NewRecorder()
		h.Update(w, req)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestVehicleHandler_Delete(t *testing.T) {
	id := primitive.NewObjectID()
	existing := &models.Vehicle{
		ID:       id,
		UserID:   primitive.NewObjectID(),
		ImageURL: []string{"http://localhost:9000/vehicles/" + id.Hex() + ".png"},
	}

	t.Run("successful delete removes image objects", func(t *testing.T) {
		h, vehicles, _, store := newVehicleHandler()
		vehicles.On("FindVehicleByID", mock.Anything, id.Hex()).Return(existing, nil)
		vehicles.On("DeleteVehicle", mock.Anything, id.Hex()).Return(nil)
		store.On("Remove", mock.Anything, "vehicles", id.Hex()+".png").Return(nil)

		req := mux.SetURLVars(httptest.NewRequest("DELETE", "/vehicle/"+id.Hex(), nil), map[string]string{"id": id.Hex()})
		w := httptest.NewRecorder()
		h.Delete(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		store.AssertExpectations(t)
	})

	t.Run("second delete yields not found", func(t *testing.T) {
		h, vehicles, _, _ := newVehicleHandler()
		vehicles.On("FindVehicleByID", mock.Anything, id.Hex()).Return(nil, db.ErrNotFound)

		req := mux.SetURLVars(httptest.NewRequest("DELETE", "/vehicle/"+id.Hex(), nil), map[string]string{"id": id.Hex()})
		w := httptest.NewRecorder()
		h.Delete(w, req)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestVehicleHandler_Search(t *testing.T) {
	t.Run("make list with price band", func(t *testing.T) {
		h, vehicles, _, _ := newVehicleHandler()
		minPrice, maxPrice := 1000.0, 5000.0
		expectedFilter := db.VehicleSearchFilter(models.VehicleSearchRequest{
			Make:     "Tata,Volvo",
			MinPrice: &minPrice,
			MaxPrice: &maxPrice,
		})
		matches := []models.Vehicle{{Make: "Tata"}, {Make: "Volvo"}}
		vehicles.On("FindVehicles", mock.Anything, expectedFilter, db.All()).Return(matches, nil)

		body := jsonBody(t, map[string]interface{}{
			"make":     "Tata,Volvo",
			"minPrice": 1000.0,
			"maxPrice": 5000.0,
		})
		req := httptest.NewRequest("POST", "/vehicle/search", body)
		w := httptest.NewRecorder()
		h.Search(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		env := decodeEnvelope(t, w)
		assert.Equal(t, int64(2), *env.TotalCount)
		assert.Nil(t, env.Pagination)
		vehicles.AssertExpectations(t)
	})

	t.Run("empty body matches all", func(t *testing.T) {
		h, vehicles, _, _ := newVehicleHandler()
		vehicles.On("FindVehicles", mock.Anything, bson.M{}, db.All()).Return([]models.Vehicle{}, nil)

		req := httptest.NewRequest("POST", "/vehicle/search", nil)
		w := httptest.NewRecorder()
		h.Search(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		env := decodeEnvelope(t, w)
		assert.Equal(t, int64(0), *env.TotalCount)
	})
}

func TestVehicleHandler_MakeCounts(t *testing.T) {
	h, vehicles, _, _ := newVehicleHandler()
	counts := []models.MakeCount{{Make: "Tata", Count: 7}, {Make: "Volvo", Count: 3}}
	vehicles.On("MakeCounts", mock.Anything, "bus").Return(counts, nil)

	req := httptest.NewRequest("GET", "/vehicle/make-counts?type=bus", nil)
	w := httptest.NewRecorder()
	h.MakeCounts(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	env := decodeEnvelope(t, w)
	var got []models.MakeCount
	assert.NoError(t, json.Unmarshal(env.Data, &got))
	assert.Equal(t, counts, got)
}

func TestVehicleHandler_Locations(t *testing.T) {
	h, vehicles, _, _ := newVehicleHandler()
	vehicles.On("DistinctLocations", mock.Anything, "").Return([]string{"Chennai, Tamil Nadu", "Kochi, Kerala"}, nil)

	req := httptest.NewRequest("GET", "/vehicle/locations", nil)
	w := httptest.NewRecorder()
	h.Locations(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	env := decodeEnvelope(t, w)
	var got []string
	assert.NoError(t, json.Unmarshal(env.Data, &got))
	assert.Len(t, got, 2)
}

package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/busdepo/marketplace-api/internal/db"
	"github.com/busdepo/marketplace-api/internal/events"
	"github.com/busdepo/marketplace-api/internal/imaging"
	"github.com/busdepo/marketplace-api/internal/middleware"
	"github.com/busdepo/marketplace-api/internal/models"
	"github.com/busdepo/marketplace-api/internal/storage"
)

// SpareHandler handles spare-part listing requests.
type SpareHandler struct {
	spares   db.SpareCollection
	makes    db.MakeCollection
	store    storage.Storage
	bucket   string
	events   *events.Publisher
	validate *validator.Validate
}

// NewSpareHandler creates a new spare-part handler.
func NewSpareHandler(spares db.SpareCollection, makes db.MakeCollection, store storage.Storage, bucket string, publisher *events.Publisher) *SpareHandler {
	return &SpareHandler{
		spares:   spares,
		makes:    makes,
		store:    store,
		bucket:   bucket,
		events:   publisher,
		validate: validator.New(),
	}
}

func (h *SpareHandler) checkMake(w http.ResponseWriter, r *http.Request, make string) bool {
	ok, err := h.makes.MakeExists(r.Context(), make)
	if err != nil {
		respondServerError(w, "failed to check make allow-list", err)
		return false
	}
	if !ok {
		respondError(w, http.StatusBadRequest, "Make is not in the allowed list")
		return false
	}
	return true
}

// Create handles POST /spare/add. Image upload precedes the insert so a
// listing is never visible without its image.
func (h *SpareHandler) Create(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.GetUserFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "User context not found")
		return
	}

	userID, err := primitive.ObjectIDFromHex(claims.UserID)
	if err != nil {
		respondError(w, http.StatusUnauthorized, "Invalid user ID in token")
		return
	}

	var req models.CreateSpareRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	if err := h.validate.Struct(req); err != nil {
		respondError(w, http.StatusBadRequest, "All required fields must be filled, including imageUrl")
		return
	}

	if !h.checkMake(w, r, req.Make) {
		return
	}

	img, err := imaging.DecodeDataURI(req.ImageURL)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid image data")
		return
	}

	id := primitive.NewObjectID()
	imageURL, err := h.store.Upload(r.Context(), h.bucket, storage.CreateKey(id.Hex()), img.Data, img.ContentType)
	if err != nil {
		respondServerError(w, "failed to upload spare image", err)
		return
	}

	now := time.Now()
	spare := models.Spare{
		ID:          id,
		Title:       req.Title,
		Make:        req.Make,
		Model:       req.Model,
		PartNumber:  req.PartNumber,
		Price:       *req.Price,
		Location:    req.Location,
		ImageURL:    []string{imageURL},
		Condition:   req.Condition,
		Description: req.Description,
		UserID:      userID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := h.spares.InsertSpare(r.Context(), spare); err != nil {
		respondServerError(w, "failed to insert spare", err)
		return
	}

	h.events.Publish(events.ListingCreated, "spare", id.Hex(), claims.UserID)
	respondData(w, http.StatusCreated, spare)
}

// GetByID handles GET /spare/{id}.
func (h *SpareHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	spare, err := h.spares.FindSpareByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			respondError(w, http.StatusNotFound, "Spare not found")
			return
		}
		respondServerError(w, "failed to fetch spare", err)
		return
	}

	respondData(w, http.StatusOK, spare)
}

func (h *SpareHandler) listPage(w http.ResponseWriter, r *http.Request, filter bson.M) {
	page, err := db.ParsePage(r.URL.Query().Get("page"), r.URL.Query().Get("limit"))
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	spares, err := h.spares.FindSpares(r.Context(), filter, page)
	if err != nil {
		respondServerError(w, "failed to fetch spares", err)
		return
	}

	totalCount, err := h.spares.CountSpares(r.Context(), filter)
	if err != nil {
		respondServerError(w, "failed to count spares", err)
		return
	}

	respondPage(w, spares, Pagination{
		CurrentPage: page.Number,
		TotalPages:  db.TotalPages(totalCount, page.Size),
		TotalCount:  totalCount,
		PageSize:    page.Size,
	})
}

// ListAll handles GET /spare/all-spares.
func (h *SpareHandler) ListAll(w http.ResponseWriter, r *http.Request) {
	h.listPage(w, r, bson.M{})
}

// ListByUser handles GET /spare/user/all, scoped to the caller.
func (h *SpareHandler) ListByUser(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.GetUserFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "User context not found")
		return
	}

	userID, err := primitive.ObjectIDFromHex(claims.UserID)
	if err != nil {
		respondError(w, http.StatusUnauthorized, "Invalid user ID in token")
		return
	}

	h.listPage(w, r, db.OwnerFilter(userID))
}

// Update handles PUT /spare/{id}.
func (h *SpareHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	existing, err := h.spares.FindSpareByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			respondError(w, http.StatusNotFound, "Spare not found")
			return
		}
		respondServerError(w, "failed to fetch spare", err)
		return
	}

	var req models.UpdateSpareRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	if err := h.validate.Struct(req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid field values")
		return
	}

	if req.Make != nil && !h.checkMake(w, r, *req.Make) {
		return
	}

	fields := bson.M{}
	setString := func(key string, v *string) {
		if v != nil {
			fields[key] = *v
		}
	}
	setString("title", req.Title)
	setString("make", req.Make)
	setString("model", req.Model)
	setString("partNumber", req.PartNumber)
	setString("location", req.Location)
	setString("condition", req.Condition)
	setString("description", req.Description)
	if req.Price != nil {
		fields["price"] = *req.Price
	}

	if raw, ok := imageString(req.ImageURL); ok && imaging.IsDataURIImage(raw) {
		img, err := imaging.DecodeDataURI(raw)
		if err != nil {
			respondError(w, http.StatusBadRequest, "Invalid image data")
			return
		}

		key := storage.UpdateKey(id, time.Now())
		imageURL, err := h.store.Upload(r.Context(), h.bucket, key, img.Data, img.ContentType)
		if err != nil {
			respondServerError(w, "failed to upload spare image", err)
			return
		}

		h.removeImages(r, existing.ImageURL)
		fields["imageUrl"] = []string{imageURL}
	}

	updated, err := h.spares.UpdateSpareFields(r.Context(), id, fields)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			respondError(w, http.StatusNotFound, "Spare not found")
			return
		}
		respondServerError(w, "failed to update spare", err)
		return
	}

	h.events.Publish(events.ListingUpdated, "spare", id, updated.UserID.Hex())
	respondData(w, http.StatusOK, updated)
}

// Delete handles DELETE /spare/{id}.
func (h *SpareHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	existing, err := h.spares.FindSpareByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			respondError(w, http.StatusNotFound, "Spare not found")
			return
		}
		respondServerError(w, "failed to fetch spare", err)
		return
	}

	if err := h.spares.DeleteSpare(r.Context(), id); err != nil {
		if errors.Is(err, db.ErrNotFound) {
			respondError(w, http.StatusNotFound, "Spare not found")
			return
		}
		respondServerError(w, "failed to delete spare", err)
		return
	}

	h.removeImages(r, existing.ImageURL)
	h.events.Publish(events.ListingDeleted, "spare", id, existing.UserID.Hex())
	respondMessage(w, http.StatusOK, "Spare deleted successfully")
}

func (h *SpareHandler) removeImages(r *http.Request, urls []string) {
	for _, url := range urls {
		key := storage.KeyFromURL(url, h.bucket)
		if key == "" {
			continue
		}
		if err := h.store.Remove(r.Context(), h.bucket, key); err != nil {
			log.WithError(err).WithField("key", key).Warn("failed to remove spare image")
		}
	}
}

// Search handles POST /spare/search. Unpaginated, newest first.
func (h *SpareHandler) Search(w http.ResponseWriter, r *http.Request) {
	var req models.SpareSearchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		respondError(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	spares, err := h.spares.FindSpares(r.Context(), db.SpareSearchFilter(req), db.All())
	if err != nil {
		respondServerError(w, "failed to search spares", err)
		return
	}

	respondSearch(w, spares, int64(len(spares)))
}

// MakeCounts handles GET /spare/make-counts.
func (h *SpareHandler) MakeCounts(w http.ResponseWriter, r *http.Request) {
	counts, err := h.spares.MakeCounts(r.Context())
	if err != nil {
		respondServerError(w, "failed to aggregate make counts", err)
		return
	}
	respondData(w, http.StatusOK, counts)
}

// Locations handles GET /spare/locations.
func (h *SpareHandler) Locations(w http.ResponseWriter, r *http.Request) {
	locations, err := h.spares.DistinctLocations(r.Context())
	if err != nil {
		respondServerError(w, "failed to fetch locations", err)
		return
	}
	respondData(w, http.StatusOK, locations)
}

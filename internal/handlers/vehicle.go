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

// VehicleHandler handles vehicle listing requests.
type VehicleHandler struct {
	vehicles db.VehicleCollection
	makes    db.MakeCollection
	store    storage.Storage
	bucket   string
	events   *events.Publisher
	validate *validator.Validate
}

// NewVehicleHandler creates a new vehicle handler.
func NewVehicleHandler(vehicles db.VehicleCollection, makes db.MakeCollection, store storage.Storage, bucket string, publisher *events.Publisher) *VehicleHandler {
	return &VehicleHandler{
		vehicles: vehicles,
		makes:    makes,
		store:    store,
		bucket:   bucket,
		events:   publisher,
		validate: validator.New(),
	}
}

// checkMake validates make against the allow-list. It returns false when
// the response has already been written.
func (h *VehicleHandler) checkMake(w http.ResponseWriter, r *http.Request, make string) bool {
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

// Create handles POST /vehicle/add. The image is decoded and uploaded
// before the record is inserted, so a listing is never visible without
// its image and a failed upload leaves no orphan record.
func (h *VehicleHandler) Create(w http.ResponseWriter, r *http.Request) {
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

	var req models.CreateVehicleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	if err := h.validate.Struct(req); err != nil {
		respondError(w, http.StatusBadRequest, "All required fields must be filled, including imageUrl")
		return
	}

	fuelType := models.FuelType(req.FuelType)
	if req.FuelType == "" {
		fuelType = models.FuelDefault
	}
	if !models.IsValidFuelType(fuelType) {
		respondError(w, http.StatusBadRequest, "Invalid fuel type")
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

	status := req.Status
	if status == "" {
		status = models.StatusActive
	}

	id := primitive.NewObjectID()
	imageURL, err := h.store.Upload(r.Context(), h.bucket, storage.CreateKey(id.Hex()), img.Data, img.ContentType)
	if err != nil {
		respondServerError(w, "failed to upload vehicle image", err)
		return
	}

	now := time.Now()
	vehicle := models.Vehicle{
		ID:                id,
		Title:             req.Title,
		Make:              req.Make,
		Model:             req.Model,
		Price:             *req.Price,
		Location:          req.Location,
		Status:            status,
		Type:              req.Type,
		ImageURL:          []string{imageURL},
		PartNumber:        req.PartNumber,
		UserID:            userID,
		DistanceTraveled:  req.DistanceTraveled,
		FuelEfficiency:    req.FuelEfficiency,
		FuelType:          fuelType,
		SeatingCapacity:   req.SeatingCapacity,
		YearManufacture:   req.YearManufacture,
		MaintenanceRecord: req.MaintenanceRecord,
		Upgrades:          req.Upgrades,
		Condition:         req.Condition,
		Description:       req.Description,
		CreatedAt:         now,
		UpdatedAt:         now,
	}

	if err := h.vehicles.InsertVehicle(r.Context(), vehicle); err != nil {
		respondServerError(w, "failed to insert vehicle", err)
		return
	}

	h.events.Publish(events.ListingCreated, "vehicle", id.Hex(), claims.UserID)
	respondData(w, http.StatusCreated, vehicle)
}

// GetByID handles GET /vehicle/{id}.
func (h *VehicleHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	vehicle, err := h.vehicles.FindVehicleByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			respondError(w, http.StatusNotFound, "Vehicle not found")
			return
		}
		respondServerError(w, "failed to fetch vehicle", err)
		return
	}

	respondData(w, http.StatusOK, vehicle)
}

// listPage runs a paginated query over filter and writes the page with
// its pagination block.
func (h *VehicleHandler) listPage(w http.ResponseWriter, r *http.Request, filter bson.M) {
	page, err := db.ParsePage(r.URL.Query().Get("page"), r.URL.Query().Get("limit"))
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	vehicles, err := h.vehicles.FindVehicles(r.Context(), filter, page)
	if err != nil {
		respondServerError(w, "failed to fetch vehicles", err)
		return
	}

	totalCount, err := h.vehicles.CountVehicles(r.Context(), filter)
	if err != nil {
		respondServerError(w, "failed to count vehicles", err)
		return
	}

	respondPage(w, vehicles, Pagination{
		CurrentPage: page.Number,
		TotalPages:  db.TotalPages(totalCount, page.Size),
		TotalCount:  totalCount,
		PageSize:    page.Size,
	})
}

// ListAll handles GET /vehicle/all-vehicles. Sold listings are excluded.
func (h *VehicleHandler) ListAll(w http.ResponseWriter, r *http.Request) {
	h.listPage(w, r, db.NotSoldFilter())
}

// ListByUser handles GET /vehicle/user/all, scoped to the caller.
func (h *VehicleHandler) ListByUser(w http.ResponseWriter, r *http.Request) {
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

// imageString unwraps an update payload's imageUrl when it was sent as
// a string. The array form clients echo back carries no new image.
func imageString(f *models.ImageField) (string, bool) {
	if f == nil {
		return "", false
	}
	return f.Value()
}

// Update handles PUT /vehicle/{id}. A supplied data-URI image replaces
// the stored image set; the previous objects are removed best-effort.
func (h *VehicleHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	existing, err := h.vehicles.FindVehicleByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			respondError(w, http.StatusNotFound, "Vehicle not found")
			return
		}
		respondServerError(w, "failed to fetch vehicle", err)
		return
	}

	var req models.UpdateVehicleRequest
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

	if req.FuelType != nil && !models.IsValidFuelType(models.FuelType(*req.FuelType)) {
		respondError(w, http.StatusBadRequest, "Invalid fuel type")
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
	setString("location", req.Location)
	setString("status", req.Status)
	setString("partNumber", req.PartNumber)
	setString("fuel_type", req.FuelType)
	setString("maintenance_record", req.MaintenanceRecord)
	setString("upgrades", req.Upgrades)
	setString("condition", req.Condition)
	setString("description", req.Description)
	if req.Price != nil {
		fields["price"] = *req.Price
	}
	if req.DistanceTraveled != nil {
		fields["distance_traveled"] = *req.DistanceTraveled
	}
	if req.FuelEfficiency != nil {
		fields["fuel_efficiency"] = *req.FuelEfficiency
	}
	if req.SeatingCapacity != nil {
		fields["seating_capacity"] = *req.SeatingCapacity
	}
	if req.YearManufacture != nil {
		fields["year_manufacture"] = *req.YearManufacture
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
			respondServerError(w, "failed to upload vehicle image", err)
			return
		}

		h.removeImages(r, existing.ImageURL)
		fields["imageUrl"] = []string{imageURL}
	}

	updated, err := h.vehicles.UpdateVehicleFields(r.Context(), id, fields)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			respondError(w, http.StatusNotFound, "Vehicle not found")
			return
		}
		respondServerError(w, "failed to update vehicle", err)
		return
	}

	h.events.Publish(events.ListingUpdated, "vehicle", id, updated.UserID.Hex())
	respondData(w, http.StatusOK, updated)
}

// Delete handles DELETE /vehicle/{id}. The listing's image objects are
// removed best-effort after the record.
func (h *VehicleHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	existing, err := h.vehicles.FindVehicleByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			respondError(w, http.StatusNotFound, "Vehicle not found")
			return
		}
		respondServerError(w, "failed to fetch vehicle", err)
		return
	}

	if err := h.vehicles.DeleteVehicle(r.Context(), id); err != nil {
		if errors.Is(err, db.ErrNotFound) {
			respondError(w, http.StatusNotFound, "Vehicle not found")
			return
		}
		respondServerError(w, "failed to delete vehicle", err)
		return
	}

	h.removeImages(r, existing.ImageURL)
	h.events.Publish(events.ListingDeleted, "vehicle", id, existing.UserID.Hex())
	respondMessage(w, http.StatusOK, "Vehicle deleted successfully")
}

// removeImages deletes stored image objects. Failures are logged: the
// record change already succeeded and cleanup is best-effort.
func (h *VehicleHandler) removeImages(r *http.Request, urls []string) {
	for _, url := range urls {
		key := storage.KeyFromURL(url, h.bucket)
		if key == "" {
			continue
		}
		if err := h.store.Remove(r.Context(), h.bucket, key); err != nil {
			log.WithError(err).WithField("key", key).Warn("failed to remove vehicle image")
		}
	}
}

// Search handles POST /vehicle/search. Results are unpaginated: the full
// match set comes back newest first with a count.
func (h *VehicleHandler) Search(w http.ResponseWriter, r *http.Request) {
	var req models.VehicleSearchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		respondError(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	vehicles, err := h.vehicles.FindVehicles(r.Context(), db.VehicleSearchFilter(req), db.All())
	if err != nil {
		respondServerError(w, "failed to search vehicles", err)
		return
	}

	respondSearch(w, vehicles, int64(len(vehicles)))
}

// MakeCounts handles GET /vehicle/make-counts. An optional type query
// parameter pre-filters the aggregate.
func (h *VehicleHandler) MakeCounts(w http.ResponseWriter, r *http.Request) {
	counts, err := h.vehicles.MakeCounts(r.Context(), r.URL.Query().Get("type"))
	if err != nil {
		respondServerError(w, "failed to aggregate make counts", err)
		return
	}
	respondData(w, http.StatusOK, counts)
}

// Locations handles GET /vehicle/locations.
func (h *VehicleHandler) Locations(w http.ResponseWriter, r *http.Request) {
	locations, err := h.vehicles.DistinctLocations(r.Context(), r.URL.Query().Get("type"))
	if err != nil {
		respondServerError(w, "failed to fetch locations", err)
		return
	}
	respondData(w, http.StatusOK, locations)
}

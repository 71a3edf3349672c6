package handlers

import (
	"fmt"
	"mime/multipart"
	"net/http"
	"sort"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/tour-booking/internal/domain/tour"
	"github.com/BruksfildServices01/tour-booking/internal/dto"
	"github.com/BruksfildServices01/tour-booking/internal/httperr"
	"github.com/BruksfildServices01/tour-booking/internal/httpresp"
	"github.com/BruksfildServices01/tour-booking/internal/imaging"
	"github.com/BruksfildServices01/tour-booking/internal/models"
	"github.com/BruksfildServices01/tour-booking/internal/query"
	"github.com/BruksfildServices01/tour-booking/internal/resource"
	"github.com/BruksfildServices01/tour-booking/internal/storage"
)

const maxTourImages = 3

var TourSchema = query.MustSchema(&models.Tour{}, query.WithMultiValue("duration"))

type ToursHandler struct {
	*resource.Resource[models.Tour, *models.Tour]

	db      *gorm.DB
	storage storage.Storage
}

func NewToursHandler(db *gorm.DB, store storage.Storage) *ToursHandler {
	res := resource.New[models.Tour](db, resource.Config[models.Tour]{
		Name:        "tour",
		Schema:      TourSchema,
		Scope:       tour.Visible,
		ListPreload: []string{"Guides"},
		Preload:     []string{"Reviews.User"},
		New:         tour.New,
		Hooks: resource.Hooks[models.Tour]{
			BeforeSave: tour.BeforeSave,
			AfterSave:  tour.AfterSave,
		},
	})
	return &ToursHandler{Resource: res, db: db, storage: store}
}

// AliasTopTours presets the query for the five best rated cheap tours.
func AliasTopTours(c *gin.Context) {
	q := c.Request.URL.Query()
	q.Set("limit", "5")
	q.Set("sort", "-ratingsAverage,price")
	q.Set("fields", "name,price,ratingsAverage,summary,difficulty")
	c.Request.URL.RawQuery = q.Encode()
	c.Next()
}

func (h *ToursHandler) Stats(c *gin.Context) {
	var stats []dto.TourStatsDTO
	if err := h.db.WithContext(c.Request.Context()).
		Model(&models.Tour{}).
		Scopes(tour.Visible).
		Select(`UPPER(difficulty) AS difficulty,
			COUNT(*) AS num_tours,
			SUM(ratings_quantity) AS num_ratings,
			AVG(ratings_average) AS avg_rating,
			AVG(price) AS avg_price,
			MIN(price) AS min_price,
			MAX(price) AS max_price`).
		Where("ratings_average >= ?", 4.5).
		Group("UPPER(difficulty)").
		Order("avg_price").
		Scan(&stats).Error; err != nil {
		_ = c.Error(err)
		return
	}
	for i := range stats {
		stats[i].AvgRating = tour.RoundRating(stats[i].AvgRating)
	}
	httpresp.OK(c, gin.H{"stats": stats})
}

// MonthlyPlan counts tour starts per month of the given year.
func (h *ToursHandler) MonthlyPlan(c *gin.Context) {
	year, err := strconv.Atoi(c.Param("year"))
	if err != nil || year < 1 {
		_ = c.Error(httperr.BadRequest("Invalid year: " + c.Param("year")))
		return
	}

	var tours []models.Tour
	if err := h.db.WithContext(c.Request.Context()).
		Scopes(tour.Visible).
		Select("id", "name", "start_dates").
		Find(&tours).Error; err != nil {
		_ = c.Error(err)
		return
	}

	byMonth := map[int]*dto.MonthlyPlanDTO{}
	for _, t := range tours {
		for _, d := range t.StartDates {
			if d.Year() != year {
				continue
			}
			m := int(d.Month())
			if byMonth[m] == nil {
				byMonth[m] = &dto.MonthlyPlanDTO{Month: m}
			}
			byMonth[m].NumTours++
			byMonth[m].Tours = append(byMonth[m].Tours, t.Name)
		}
	}

	plan := make([]dto.MonthlyPlanDTO, 0, len(byMonth))
	for _, p := range byMonth {
		plan = append(plan, *p)
	}
	sort.Slice(plan, func(i, j int) bool {
		if plan[i].NumTours != plan[j].NumTours {
			return plan[i].NumTours > plan[j].NumTours
		}
		return plan[i].Month < plan[j].Month
	})
	if len(plan) > 12 {
		plan = plan[:12]
	}

	httpresp.OK(c, gin.H{"plan": plan})
}

// UploadImages replaces the cover and gallery from multipart fields
// "imageCover" (one file) and "images" (up to three).
func (h *ToursHandler) UploadImages(c *gin.Context) {
	id, err := resource.ParseID(c, "id")
	if err != nil {
		_ = c.Error(err)
		return
	}
	if _, err := h.Lookup(c, id); err != nil {
		_ = c.Error(err)
		return
	}

	form, err := c.MultipartForm()
	if err != nil {
		_ = c.Error(httperr.Wrap(http.StatusBadRequest, "Please upload images as multipart form data", err))
		return
	}
	covers := form.File["imageCover"]
	gallery := form.File["images"]
	if len(covers) > 1 || len(gallery) > maxTourImages {
		_ = c.Error(httperr.BadRequest(fmt.Sprintf("Upload at most one imageCover and %d images", maxTourImages)))
		return
	}

	changes := map[string]any{}
	stamp := time.Now().Unix()

	if len(covers) == 1 {
		url, err := h.storeImage(c, covers[0], fmt.Sprintf("tours/tour-%s-%d-cover.webp", id, stamp))
		if err != nil {
			_ = c.Error(err)
			return
		}
		changes["image_cover"] = url
	}

	if len(gallery) > 0 {
		urls := make([]string, 0, len(gallery))
		for i, fh := range gallery {
			url, err := h.storeImage(c, fh, fmt.Sprintf("tours/tour-%s-%d-%d.webp", id, stamp, i+1))
			if err != nil {
				_ = c.Error(err)
				return
			}
			urls = append(urls, url)
		}
		changes["images"] = urls
	}

	if len(changes) > 0 {
		if err := h.updateColumns(c, id, changes); err != nil {
			_ = c.Error(err)
			return
		}
	}

	updated, err := h.Lookup(c, id)
	if err != nil {
		_ = c.Error(err)
		return
	}
	httpresp.OK(c, gin.H{"doc": updated})
}

func (h *ToursHandler) storeImage(c *gin.Context, fh *multipart.FileHeader, key string) (string, error) {
	if fh.Size > maxUploadSize {
		return "", httperr.BadRequest("Image is too large, the limit is 5MB")
	}
	f, err := fh.Open()
	if err != nil {
		return "", err
	}
	defer f.Close()

	img, err := imaging.Process(f, imaging.TourImage, 90)
	if err != nil {
		return "", httperr.Wrap(http.StatusBadRequest, "Not an image! Please upload only images.", err)
	}
	return h.storage.Put(c.Request.Context(), key, imaging.ContentType, img)
}

func (h *ToursHandler) updateColumns(c *gin.Context, id uuid.UUID, changes map[string]any) error {
	t := &models.Tour{ID: id}
	if urls, ok := changes["images"].([]string); ok {
		t.Images = urls
	}
	if cover, ok := changes["image_cover"].(string); ok {
		t.ImageCover = cover
	}

	cols := make([]string, 0, len(changes))
	for col := range changes {
		cols = append(cols, col)
	}
	// Select + struct keeps the json serializer on images.
	return h.db.WithContext(c.Request.Context()).Model(t).Select(cols).Updates(t).Error
}

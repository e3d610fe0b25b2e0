package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/veritydate/verity-backend/internal/geo"
	"github.com/veritydate/verity-backend/internal/service/profile"
)

// ProfileHandler fronts onboarding and profile maintenance.
type ProfileHandler struct {
	svc *profile.Service
}

func NewProfileHandler(svc *profile.Service) *ProfileHandler {
	return &ProfileHandler{svc: svc}
}

type createProfileRequest struct {
	Name          string    `json:"name" binding:"required"`
	DateOfBirth   time.Time `json:"date_of_birth" binding:"required"`
	Gender        string    `json:"gender" binding:"required"`
	Bio           string    `json:"bio"`
	Photos        []string  `json:"photos"`
	IntroVideoURL string    `json:"intro_video_url"`
	Lat           *float64  `json:"lat"`
	Lon           *float64  `json:"lon"`
	InterestedIn  []string  `json:"interested_in"`
	AgeMin        int       `json:"age_min"`
	AgeMax        int       `json:"age_max"`
	DistanceKm    float64   `json:"distance_km"`
}

// Create handles POST /api/profiles — the onboarding completion write.
func (h *ProfileHandler) Create(c *gin.Context) {
	var req createProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "name, date_of_birth and gender required"})
		return
	}

	in := profile.CreateInput{
		UserID:        currentUser(c),
		Name:          req.Name,
		DateOfBirth:   req.DateOfBirth,
		Gender:        req.Gender,
		Bio:           req.Bio,
		Photos:        req.Photos,
		IntroVideoURL: req.IntroVideoURL,
		InterestedIn:  req.InterestedIn,
		AgeMin:        req.AgeMin,
		AgeMax:        req.AgeMax,
		DistanceKm:    req.DistanceKm,
	}
	if req.Lat != nil && req.Lon != nil {
		in.Location = &geo.Point{Lat: *req.Lat, Lon: *req.Lon}
	}

	p, err := h.svc.Create(c.Request.Context(), in)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, p)
}

// Me handles GET /api/me/profile
func (h *ProfileHandler) Me(c *gin.Context) {
	p, err := h.svc.Get(c.Request.Context(), currentUser(c))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

type preferencesRequest struct {
	GenderPrefs []string `json:"gender_prefs"`
	AgeMin      int      `json:"age_min" binding:"required"`
	AgeMax      int      `json:"age_max" binding:"required"`
	DistanceKm  float64  `json:"distance_km" binding:"required"`
}

// Preferences handles PUT /api/me/preferences
func (h *ProfileHandler) Preferences(c *gin.Context) {
	var req preferencesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "age_min, age_max and distance_km required"})
		return
	}
	err := h.svc.UpdatePreferences(c.Request.Context(), currentUser(c), req.GenderPrefs, req.AgeMin, req.AgeMax, req.DistanceKm)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

type locationRequest struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// Location handles PUT /api/me/location
func (h *ProfileHandler) Location(c *gin.Context) {
	var req locationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "lat and lon required"})
		return
	}
	if err := h.svc.SetLocation(c.Request.Context(), currentUser(c), req.Lat, req.Lon); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// Active handles POST /api/me/active — stamps last activity.
func (h *ProfileHandler) Active(c *gin.Context) {
	if err := h.svc.TouchLastActive(c.Request.Context(), currentUser(c)); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

package catalog

// ---------- LOCATIONS ----------

type CreateLocationRequest struct {
	Name    string   `json:"name" validate:"required,max=120"`
	Address string   `json:"address" validate:"max=255"`
	Tags    []string `json:"tags,omitempty" validate:"max=10,dive,max=30"`
}

// ---------- SPACES ----------

type CreateSpaceRequest struct {
	Name        string `json:"name" validate:"required,max=120"`
	WidthCm     int    `json:"width_cm" validate:"gte=0"`
	HeightCm    int    `json:"height_cm" validate:"gte=0"`
	PricePerDay int64  `json:"price_per_day" validate:"gte=0"`
	MaxCapacity int    `json:"max_capacity" validate:"required,gte=1,lte=50"`
}

// ---------- OVERRIDES ----------

// Pointers so a missing field is a validation error instead of false.
type ClosureRequest struct {
	Closed *bool `json:"closed" validate:"required"`
}

type ActivationRequest struct {
	Active *bool `json:"active" validate:"required"`
}

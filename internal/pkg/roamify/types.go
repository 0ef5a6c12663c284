package roamify

// CatalogEntry is one reseller package flattened out of the country-grouped
// catalog response, annotated with its parent country's fields. Entries only
// live for the duration of a sync run.
type CatalogEntry struct {
	PackageID       string   `json:"packageId"`
	Name            string   `json:"package"`
	Plan            string   `json:"plan"`
	Activation      string   `json:"activation"`
	Day             int      `json:"day"`
	Validity        string   `json:"validity"`
	Price           float64  `json:"price"`
	IsUnlimited     bool     `json:"isUnlimited"`
	DataAmount      float64  `json:"dataAmount"`
	DataUnit        string   `json:"dataUnit"`
	WithSMS         bool     `json:"withSMS"`
	WithCall        bool     `json:"withCall"`
	WithHotspot     bool     `json:"withHotspot"`
	WithDataRoaming bool     `json:"withDataRoaming"`
	Notes           []string `json:"notes"`

	// Annotated from the parent country object.
	CountryName string `json:"countryName"`
	CountryCode string `json:"countryCode"`
	CountrySlug string `json:"countrySlug"`
	Region      string `json:"region"`
	Geography   string `json:"geography"`
}

type catalogCountry struct {
	CountryName string         `json:"countryName"`
	CountryCode string         `json:"countryCode"`
	CountrySlug string         `json:"countrySlug"`
	Region      string         `json:"region"`
	Geography   string         `json:"geography"`
	Packages    []CatalogEntry `json:"packages"`
}

type catalogResponse struct {
	Status string `json:"status"`
	Data   struct {
		Packages []catalogCountry `json:"packages"`
	} `json:"data"`
}

// ListedPackage is the lighter package shape returned by the validation
// oriented listing endpoint.
type ListedPackage struct {
	PackageID string  `json:"packageId"`
	Name      string  `json:"package"`
	Price     float64 `json:"price"`
}

type listResponse struct {
	Status string          `json:"status"`
	Data   []ListedPackage `json:"data"`
}

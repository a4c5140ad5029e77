// internal/francetravail/models.go
package francetravail

// Offer is a raw listing as returned by the offres d'emploi search API.
// Only the fields the pipeline consumes are mapped; everything else in
// the upstream payload is ignored.
type Offer struct {
	ID                 string       `json:"id"`
	Intitule           string       `json:"intitule"`
	Description        string       `json:"description"`
	TypeContrat        string       `json:"typeContrat"`
	TypeContratLibelle string       `json:"typeContratLibelle"`
	Entreprise         Entreprise   `json:"entreprise"`
	LieuTravail        LieuTravail  `json:"lieuTravail"`
	Salaire            Salaire      `json:"salaire"`
	OrigineOffre       OrigineOffre `json:"origineOffre"`
}

type Entreprise struct {
	Nom string `json:"nom"`
}

type LieuTravail struct {
	Libelle   string  `json:"libelle"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Commune   string  `json:"commune"`
}

type Salaire struct {
	Libelle     string `json:"libelle"`
	Complement1 string `json:"complement1"`
}

type OrigineOffre struct {
	URL string `json:"url"`
}

// DedupeKey is the listing's identity for merging: origin URL when
// present, listing id otherwise.
func (o Offer) DedupeKey() string {
	if o.OrigineOffre.URL != "" {
		return o.OrigineOffre.URL
	}
	return o.ID
}

// searchResponse mirrors the top-level search payload.
type searchResponse struct {
	Resultats []Offer `json:"resultats"`
}

// tokenResponse holds the response from the OAuth token endpoint.
type tokenResponse struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int    `json:"expires_in"`
	TokenType   string `json:"token_type"`
	Scope       string `json:"scope"`
}

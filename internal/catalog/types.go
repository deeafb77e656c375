package catalog

// Item mirrors one catalog entry as returned by /main/search and
// /main/ramyun/{id}. Field names follow the remote payload so that snapshots
// persisted by the recency cache round-trip unchanged.
type Item struct {
	ID          int64    `json:"ramyunIdx"`
	Name        string   `json:"ramyunName"`
	Image       string   `json:"ramyunImg"`
	Brand       string   `json:"brandName"`
	Noodle      bool     `json:"noodle"`
	Kcal        float64  `json:"ramyunKcal"`
	IsCup       bool     `json:"isCup"`
	Cooking     bool     `json:"cooking"`
	Gram        float64  `json:"gram"`
	Sodium      float64  `json:"ramyunNa"`
	Scoville    *int     `json:"scoville"`
	AvgRate     *float64 `json:"avgRate"`
	ReviewCount int      `json:"reviewCount"`
	Liked       bool     `json:"isLiked"`
}

// Rating returns the aggregate rating. ok is false when nobody has rated the
// item yet.
func (i Item) Rating() (rating float64, ok bool) {
	if i.AvgRate == nil {
		return 0, false
	}
	return *i.AvgRate, true
}

// MergeDisplay returns fresh with the liked flag carried over from i. The
// detail endpoint does not report the caller's favorite state.
func (i Item) MergeDisplay(fresh Item) Item {
	fresh.Liked = i.Liked
	return fresh
}

// Page is one page of search results.
type Page struct {
	Items         []Item
	PageNumber    int
	PageSize      int
	TotalPages    int
	TotalElements int
}

// Clone returns a deep copy of the page's item slice.
func (p Page) Clone() Page {
	out := p
	if len(p.Items) > 0 {
		out.Items = make([]Item, len(p.Items))
		copy(out.Items, p.Items)
	}
	return out
}

// searchResponse mirrors the /main/search envelope.
type searchResponse struct {
	StatusCode int    `json:"statusCode"`
	Message    string `json:"message"`
	Data       struct {
		Content  []Item `json:"content"`
		Pageable struct {
			PageNumber int `json:"pageNumber"`
			PageSize   int `json:"pageSize"`
		} `json:"pageable"`
		TotalPages    int `json:"totalPages"`
		TotalElements int `json:"totalElements"`
	} `json:"data"`
}

// itemResponse mirrors the /main/ramyun/{id} envelope.
type itemResponse struct {
	Data struct {
		Ramyun Item `json:"ramyun"`
	} `json:"data"`
}

type favoriteRequest struct {
	ItemID int64 `json:"ramyunIdx"`
}

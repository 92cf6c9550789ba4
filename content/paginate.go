package content

// Pagination describes one page of a listing. Page is 1-based.
type Pagination struct {
	Page       int
	PerPage    int
	TotalPages int
	TotalItems int
}

// HasPrev reports whether a page precedes this one.
func (p Pagination) HasPrev() bool { return p.Page > 1 }

// HasNext reports whether a page follows this one.
func (p Pagination) HasNext() bool { return p.Page < p.TotalPages }

// Paginate returns page (1-based) of posts. ok is false when page lies outside
// the listing; page 1 of an empty listing is valid and empty.
func Paginate(posts []Post, page, perPage int) (items []Post, pg Pagination, ok bool) {
	if perPage <= 0 {
		perPage = len(posts)
		if perPage == 0 {
			perPage = 1
		}
	}
	total := (len(posts) + perPage - 1) / perPage
	if total == 0 {
		total = 1
	}
	pg = Pagination{Page: page, PerPage: perPage, TotalPages: total, TotalItems: len(posts)}
	if page < 1 || page > total {
		return nil, pg, false
	}
	start := (page - 1) * perPage
	end := min(start+perPage, len(posts))
	return posts[start:end], pg, true
}

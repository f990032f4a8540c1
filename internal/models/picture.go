package models

// Picture is an event photo served by the pictures service.
type Picture struct {
	ID           int    `json:"id"`
	PicURL       string `json:"pic_url"`
	EventCountry string `json:"event_country"`
	EventState   string `json:"event_state"`
	EventCity    string `json:"event_city"`
	EventDate    string `json:"event_date"`
}

// PictureFields is the body of a picture create or update. Nil fields are
// absent from the request.
type PictureFields struct {
	ID           *int    `json:"id,omitempty"`
	PicURL       *string `json:"pic_url,omitempty"`
	EventCountry *string `json:"event_country,omitempty"`
	EventState   *string `json:"event_state,omitempty"`
	EventCity    *string `json:"event_city,omitempty"`
	EventDate    *string `json:"event_date,omitempty"`
}

// Merge copies the provided fields into p. The id is never changed.
func (p *Picture) Merge(f PictureFields) {
	if f.PicURL != nil {
		p.PicURL = *f.PicURL
	}
	if f.EventCountry != nil {
		p.EventCountry = *f.EventCountry
	}
	if f.EventState != nil {
		p.EventState = *f.EventState
	}
	if f.EventCity != nil {
		p.EventCity = *f.EventCity
	}
	if f.EventDate != nil {
		p.EventDate = *f.EventDate
	}
}

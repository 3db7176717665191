package display

import (
	"fmt"
	"io"
	"sync"
)

// Text is an in-memory TextTarget.
type Text struct {
	mu   sync.RWMutex
	text string
}

func (t *Text) SetText(text string) {
	t.mu.Lock()
	t.text = text
	t.mu.Unlock()
}

func (t *Text) Text() string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.text
}

// Block is an in-memory Region, hidden until shown.
type Block struct {
	mu      sync.RWMutex
	visible bool
}

func (b *Block) Show() {
	b.mu.Lock()
	b.visible = true
	b.mu.Unlock()
}

func (b *Block) Visible() bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.visible
}

// Page is a complete in-memory display, used by the terminal front-end and the
// page server in place of browser elements.
type Page struct {
	// mu spans a whole Apply; Snapshot reads under it.
	mu sync.RWMutex

	Display      Block
	LocationName Text
	Temperature  Text
	Description  Text
	Humidity     Text
	WindSpeed    Text
	Timestamp    Text
}

// NewPage returns a page with the display region hidden.
func NewPage() *Page {
	return &Page{}
}

// Elements binds the page's handles.
func (p *Page) Elements() Elements {
	return Elements{
		Region:       &p.Display,
		LocationName: &p.LocationName,
		Temperature:  &p.Temperature,
		Description:  &p.Description,
		Humidity:     &p.Humidity,
		WindSpeed:    &p.WindSpeed,
		Timestamp:    &p.Timestamp,
		Guard:        &p.mu,
	}
}

// Snapshot is a point-in-time copy of a page.
type Snapshot struct {
	Visible bool
	Fields
}

// Snapshot copies the current element contents.
func (p *Page) Snapshot() Snapshot {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return Snapshot{
		Visible: p.Display.Visible(),
		Fields: Fields{
			LocationName: p.LocationName.Text(),
			Temperature:  p.Temperature.Text(),
			Description:  p.Description.Text(),
			Humidity:     p.Humidity.Text(),
			WindSpeed:    p.WindSpeed.Text(),
			Timestamp:    p.Timestamp.Text(),
		},
	}
}

// WriteTo prints the display block as aligned lines. Nothing is printed while
// the region is hidden.
func (s Snapshot) WriteTo(w io.Writer) (int64, error) {
	if !s.Visible {
		return 0, nil
	}
	n, err := fmt.Fprintf(w,
		"Location:    %s\nTemperature: %s\nConditions:  %s\nHumidity:    %s\nWind:        %s\nUpdated:     %s\n",
		s.LocationName, s.Temperature, s.Description, s.Humidity, s.WindSpeed, s.Timestamp)
	return int64(n), err
}

package feed

import (
	"encoding/xml"
	"fmt"
	"io"
	"strconv"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/text/encoding/ianaindex"
)

// offerField tracks which child element's text the parser is currently
// accumulating. It is plain per-offer state, reset whenever a child
// element closes.
type offerField int

const (
	fieldNone offerField = iota
	fieldPrice
	fieldOldPrice
	fieldCurrency
	fieldCategory
	fieldName
	fieldDescription
	fieldVendor
	fieldVendorCode
)

// Parser turns a feed byte stream into a forward-only sequence of raw
// offers. The sequence is lazy and not restartable; a fatal error ends it.
type Parser struct {
	dec    *xml.Decoder
	logger *zap.Logger
}

// NewParser creates a parser reading from r. Feeds are frequently delivered
// in legacy encodings (windows-1251 in particular), so the decoder resolves
// the declared charset through the IANA index.
func NewParser(r io.Reader, logger *zap.Logger) *Parser {
	dec := xml.NewDecoder(r)
	dec.CharsetReader = func(charset string, input io.Reader) (io.Reader, error) {
		enc, err := ianaindex.IANA.Encoding(charset)
		if err != nil || enc == nil {
			return nil, fmt.Errorf("unsupported feed encoding %q", charset)
		}
		return enc.NewDecoder().Reader(input), nil
	}
	return &Parser{
		dec:    dec,
		logger: logger,
	}
}

// Pos returns the current byte offset in the feed stream.
func (p *Parser) Pos() int64 {
	return p.dec.InputOffset()
}

// Next returns the next offer in the feed, or io.EOF once the document is
// exhausted. Offers without an id attribute are skipped with a warning and
// never surface to the caller. Any other error is fatal for the whole feed.
func (p *Parser) Next() (*RawOffer, error) {
	for {
		tok, err := p.dec.Token()
		if err == io.EOF {
			return nil, io.EOF
		}
		if err != nil {
			return nil, p.wrapErr(err)
		}

		start, ok := tok.(xml.StartElement)
		if !ok || start.Name.Local != "offer" {
			continue
		}

		offer, err := p.readOffer(start)
		if err != nil {
			return nil, err
		}
		if offer == nil {
			// Offer had no id attribute; dropped from totals entirely.
			continue
		}
		return offer, nil
	}
}

// readOffer consumes one offer element, start tag through matching end tag.
// It returns nil (no error) when the offer carries no id attribute.
func (p *Parser) readOffer(start xml.StartElement) (*RawOffer, error) {
	var id string
	var available *bool

	for _, attr := range start.Attr {
		switch attr.Name.Local {
		case "id":
			id = attr.Value
		case "available":
			v, err := parseAvailability(attr.Value)
			if err != nil {
				return nil, p.wrapErr(err)
			}
			available = &v
		}
	}

	hasID := id != ""
	if !hasID {
		p.logger.Warn("an offer without id was found", zap.Int64("pos", p.Pos()))
	}

	offer := &RawOffer{ID: id, Available: available}
	field := fieldNone

	for {
		tok, err := p.dec.Token()
		if err == io.EOF {
			return nil, p.wrapErr(fmt.Errorf("unexpected end of feed inside offer %q", id))
		}
		if err != nil {
			return nil, p.wrapErr(err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "price":
				field = fieldPrice
			case "oldprice":
				field = fieldOldPrice
			case "currencyId":
				field = fieldCurrency
			case "categoryId":
				field = fieldCategory
			case "name":
				field = fieldName
			case "description":
				field = fieldDescription
			case "vendor":
				field = fieldVendor
			case "vendorCode":
				field = fieldVendorCode
			}
			// Unknown child elements are ignored, not an error.
		case xml.CharData:
			p.setField(offer, field, string(t))
		case xml.EndElement:
			if t.Name.Local == "offer" {
				if !hasID {
					return nil, nil
				}
				return offer, nil
			}
			// Any other closing tag discards the current field so trailing
			// unlabeled text is not misattributed.
			field = fieldNone
		}
	}
}

// setField assigns decoded text to the tracked offer field. Numeric values
// that fail to parse leave the field absent and log a warning; they never
// abort the offer.
func (p *Parser) setField(offer *RawOffer, field offerField, raw string) {
	switch field {
	case fieldPrice:
		v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
		if err != nil {
			p.logger.Warn("cannot parse price",
				zap.String("offer_id", offer.ID), zap.String("value", raw))
			return
		}
		offer.Price = &v
	case fieldOldPrice:
		v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
		if err != nil {
			p.logger.Warn("cannot parse oldprice",
				zap.String("offer_id", offer.ID), zap.String("value", raw))
			return
		}
		offer.OldPrice = &v
	case fieldCurrency:
		code := strings.TrimSpace(raw)
		if code == "" {
			return
		}
		if _, ok := allowedCurrencies[code]; !ok {
			p.logger.Warn("unknown currencyId",
				zap.String("offer_id", offer.ID), zap.String("value", code))
			return
		}
		offer.Currency = &code
	case fieldCategory:
		v, err := strconv.Atoi(strings.TrimSpace(raw))
		if err != nil {
			p.logger.Warn("cannot parse categoryId",
				zap.String("offer_id", offer.ID), zap.String("value", raw))
			return
		}
		offer.CategoryID = &v
	case fieldName:
		s := raw
		offer.Name = &s
	case fieldDescription:
		s := raw
		offer.Description = &s
	case fieldVendor:
		s := raw
		offer.Vendor = &s
	case fieldVendorCode:
		s := raw
		offer.VendorCode = &s
	}
}

// parseAvailability maps the availability attribute literal onto a flag.
// The mapping is strict: a literal outside the known set is a fatal error,
// because a misread availability silently corrupts stock state.
func parseAvailability(value string) (bool, error) {
	switch value {
	case "true", "1":
		return true, nil
	case "false", "0", "":
		return false, nil
	default:
		return false, fmt.Errorf("unknown \"available\" attribute value: %q", value)
	}
}

func (p *Parser) wrapErr(err error) error {
	return fmt.Errorf("feed error at byte %d: %w", p.dec.InputOffset(), err)
}

package scan

import (
	"time"
)

// OCR methods recorded on a draft.
const (
	OCRMethodOnDevice = "on-device"
	OCRMethodManual   = "manual"
)

// onDeviceConfidence is the fixed confidence reported for a successful
// on-device parse. The recognizer does not expose a usable per-scan score.
const onDeviceConfidence = 70

// errorDraftStoreName marks the sentinel draft produced when parsing
// panics; the caller offers manual entry instead of surfacing an error.
const errorDraftStoreName = "Error parsing receipt"

// ReceiptDraft is the structured result of one scan attempt. The user edits
// it during review before it is handed to the receipt-creation API; the
// total is always derived, never edited directly.
type ReceiptDraft struct {
	StoreName     string           `json:"storeName"`
	StoreAddress  string           `json:"storeAddress,omitempty"`
	Date          time.Time        `json:"date"`
	Items         []ParsedLineItem `json:"items"`
	Subtotal      float64          `json:"subtotal"`
	Tax           float64          `json:"tax"`
	Tip           float64          `json:"tip"`
	Total         float64          `json:"total"`
	OCRMethod     string           `json:"ocrMethod"`
	OCRConfidence int              `json:"ocrConfidence"`
}

// Recalculate re-derives the subtotal and total after the user edits item
// names or prices during review.
func (d *ReceiptDraft) Recalculate() {
	sum := 0.0
	for _, item := range d.Items {
		sum += item.TotalPrice
	}
	d.Subtotal = roundCents(sum)
	d.Total = roundCents(d.Subtotal + d.Tax + d.Tip)
}

// Parser reconstructs a structured receipt from recognized text fragments.
// It holds only compiled patterns; a single Parser is safe for concurrent
// and repeated use, and parsing the same input always yields the same
// draft.
type Parser struct {
	fields     *fieldClassifier
	filter     *itemFilter
	repairer   *priceRepairer
	sequential pairingStrategy
	proximity  pairingStrategy
}

// NewParser creates a receipt parser with all patterns compiled.
func NewParser() *Parser {
	return &Parser{
		fields:     newFieldClassifier(),
		filter:     newItemFilter(),
		repairer:   newPriceRepairer(),
		sequential: SequentialMatcher{},
		proximity:  ProximityMatcher{},
	}
}

// Parse turns recognizer output into a receipt draft. It never fails: any
// panic inside the pipeline yields the sentinel error draft, and inputs
// that produce nothing yield an empty draft the caller treats as a soft
// failure prompting manual entry.
func (p *Parser) Parse(blocks []RecognizedBlock) (draft *ReceiptDraft) {
	defer func() {
		if r := recover(); r != nil {
			draft = errorDraft()
		}
	}()

	fragments, hasSpatialData := Preprocess(blocks)
	joined := joinFragments(fragments)

	draft = &ReceiptDraft{
		StoreName:     p.fields.detectStoreName(fragments),
		StoreAddress:  p.fields.detectStoreAddress(joined),
		Date:          time.Now().UTC(),
		Items:         []ParsedLineItem{},
		OCRMethod:     OCRMethodOnDevice,
		OCRConfidence: onDeviceConfidence,
	}
	draft.Total, draft.Subtotal, draft.Tax, draft.Tip = p.fields.detectTotals(joined)

	// The printed date is detected but intentionally not wired into the
	// draft; the draft date reflects scan time.
	_ = p.fields.detectDate(joined)

	ctx := &matchContext{
		fragments:    fragments,
		consumed:     make([]bool, len(fragments)),
		filter:       p.filter,
		repairer:     p.repairer,
		storeName:    draft.StoreName,
		storeAddress: draft.StoreAddress,
	}

	items := sameLinePass(ctx)
	if hasSpatialData {
		items = append(items, p.proximity.Pair(ctx)...)
	} else {
		items = append(items, p.sequential.Pair(ctx)...)
	}
	sortByPosition(items)
	draft.Items = append(draft.Items, items...)

	reconcileTotals(draft)
	return draft
}

// ManualDraft returns an empty draft for the manual-entry path, used when
// the recognizer is unavailable or a scan found no items.
func ManualDraft() *ReceiptDraft {
	return &ReceiptDraft{
		StoreName: "",
		Date:      time.Now().UTC(),
		Items:     []ParsedLineItem{},
		OCRMethod: OCRMethodManual,
	}
}

func errorDraft() *ReceiptDraft {
	return &ReceiptDraft{
		StoreName:     errorDraftStoreName,
		Date:          time.Now().UTC(),
		Items:         []ParsedLineItem{},
		OCRMethod:     OCRMethodOnDevice,
		OCRConfidence: 0,
	}
}

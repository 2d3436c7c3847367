package detection

// ObjectTypeBoundingBox is the annotation-tool type discriminator written
// into converted class attributes.
const ObjectTypeBoundingBox = "BOUNDING_BOX"

// Filter selects which raw detections survive conversion. A nil bound means
// unbounded on that side; an empty class list allows every class.
type Filter struct {
	MinConfidence *float64 `json:"minConfidence,omitempty"`
	MaxConfidence *float64 `json:"maxConfidence,omitempty"`
	Classes       []string `json:"classes,omitempty"`
}

// Matches reports whether a detection passes the filter. Both confidence
// bounds are inclusive.
func (f *Filter) Matches(obj DetectedObject) bool {
	if f == nil {
		return true
	}
	if f.MinConfidence != nil && obj.Confidence < *f.MinConfidence {
		return false
	}
	if f.MaxConfidence != nil && obj.Confidence > *f.MaxConfidence {
		return false
	}
	if len(f.Classes) > 0 {
		for _, id := range f.Classes {
			if id == obj.ClassID {
				return true
			}
		}
		return false
	}
	return true
}

// Point is one vertex in image coordinates.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// ResultObject is one converted detection in the shape the annotation tool
// stores: the raw box plus an equivalent top-left/bottom-right point pair.
type ResultObject struct {
	ClassID     string      `json:"classId"`
	ClassName   string      `json:"className"`
	Confidence  float64     `json:"confidence"`
	Type        string      `json:"type"`
	BoundingBox BoundingBox `json:"boundingBox"`
	Points      []Point     `json:"points"`
}

// Result is the filtered, converted model output for one data item.
type Result struct {
	DataID     int64
	Confidence *float64
	Objects    []ResultObject
}

// Convert filters the raw detection response and reshapes the survivors into
// annotation-tool objects. When the response carries no aggregate confidence
// it is computed as the mean of the surviving detections' confidences, and
// left absent when nothing survives.
func Convert(resp *Response, filter *Filter) Result {
	out := Result{DataID: resp.ID, Confidence: resp.Confidence}
	for _, obj := range resp.Objects {
		if !filter.Matches(obj) {
			continue
		}
		out.Objects = append(out.Objects, buildObject(obj))
	}
	if out.Confidence == nil && len(out.Objects) > 0 {
		var sum float64
		for _, obj := range out.Objects {
			sum += obj.Confidence
		}
		mean := sum / float64(len(out.Objects))
		out.Confidence = &mean
	}
	return out
}

func buildObject(obj DetectedObject) ResultObject {
	box := obj.BoundingBox
	return ResultObject{
		ClassID:     obj.ClassID,
		ClassName:   obj.ClassName,
		Confidence:  obj.Confidence,
		Type:        ObjectTypeBoundingBox,
		BoundingBox: box,
		Points: []Point{
			{X: box.X, Y: box.Y},
			{X: box.X + box.Width, Y: box.Y + box.Height},
		},
	}
}

package dto

import "encoding/json"

// TimeseriesResponse is the top-level container of the fundamentals
// timeseries endpoint.
type TimeseriesResponse struct {
	Timeseries TimeseriesData `json:"timeseries"`
}

type TimeseriesData struct {
	Result []TimeseriesResult `json:"result"`
	Error  *APIError          `json:"error"`
}

// TimeseriesResult holds one requested metric. The metric's values live
// under a dynamic JSON key named after the metric itself (e.g.
// "annualNetIncome"), so decoding goes through a raw-message pass.
type TimeseriesResult struct {
	Meta      TimeseriesMeta
	Timestamp []int64
	Values    []TimeseriesValue
}

type TimeseriesMeta struct {
	Symbol []string `json:"symbol"`
	Type   []string `json:"type"`
}

type TimeseriesValue struct {
	AsOfDate      string        `json:"asOfDate"`
	PeriodType    string        `json:"periodType"`
	ReportedValue ReportedValue `json:"reportedValue"`
}

type ReportedValue struct {
	Raw *float64 `json:"raw"`
	Fmt string   `json:"fmt"`
}

func (r *TimeseriesResult) UnmarshalJSON(data []byte) error {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return err
	}
	if raw, ok := fields["meta"]; ok {
		if err := json.Unmarshal(raw, &r.Meta); err != nil {
			return err
		}
	}
	if raw, ok := fields["timestamp"]; ok {
		if err := json.Unmarshal(raw, &r.Timestamp); err != nil {
			return err
		}
	}
	for _, metric := range r.Meta.Type {
		raw, ok := fields[metric]
		if !ok {
			continue
		}
		if err := json.Unmarshal(raw, &r.Values); err != nil {
			return err
		}
	}
	return nil
}

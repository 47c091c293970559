package domain

import "encoding/json"

// Protocol version reported by get_version. The wire protocol is compatible
// with 1.x clients of the original server.
const ProtocolVersion = "1.1"

// StatusSuccess and StatusError are the two values of the response status field.
const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// SuccessResult is the minimal success envelope.
type SuccessResult struct {
	Status string `json:"status"`
}

// OK is the shared minimal success response
func OK() SuccessResult {
	return SuccessResult{Status: StatusSuccess}
}

// ConnectResult reports session readiness and canvas geometry.
type ConnectResult struct {
	Status       string `json:"status"`
	PaintVersion string `json:"paint_version"`
	CanvasWidth  int    `json:"canvas_width"`
	CanvasHeight int    `json:"canvas_height"`
}

// CanvasDimensionsResult reports the current canvas size.
type CanvasDimensionsResult struct {
	Status string `json:"status"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
}

// VersionResult reports protocol and server versions.
type VersionResult struct {
	Status          string `json:"status"`
	ProtocolVersion string `json:"protocol_version"`
	ServerVersion   string `json:"server_version"`
	PaintVersion    string `json:"paint_version"`
}

// CreateCanvasResult reports the dimensions actually applied.
type CreateCanvasResult struct {
	Status       string `json:"status"`
	CanvasWidth  int    `json:"canvas_width"`
	CanvasHeight int    `json:"canvas_height"`
}

// SaveResult echoes the path written.
type SaveResult struct {
	Status   string `json:"status"`
	FilePath string `json:"file_path"`
}

// FetchImageResult carries the image bytes and metadata.
type FetchImageResult struct {
	Status      string `json:"status"`
	ImageBase64 string `json:"image_base64"`
	Format      string `json:"format"`
	Width       int    `json:"width"`
	Height      int    `json:"height"`
}

// RecreateImageResult summarizes an executed recreation batch.
type RecreateImageResult struct {
	Status          string `json:"status"`
	JobID           string `json:"job_id"`
	PrimitivesTotal int    `json:"primitives_total"`
	ColorsUsed      int    `json:"colors_used"`
	OutputPath      string `json:"output_path,omitempty"`
}

// ErrorBody is the code+message pair inside an error response.
type ErrorBody struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
}

// ErrorResult is the error envelope.
type ErrorResult struct {
	Status string    `json:"status"`
	Error  ErrorBody `json:"error"`
}

// NewErrorResult maps any error to the wire envelope, attaching CodeGeneral to
// unclassified failures.
func NewErrorResult(err error) ErrorResult {
	return ErrorResult{
		Status: StatusError,
		Error: ErrorBody{
			Code:    CodeOf(err),
			Message: MessageOf(err),
		},
	}
}

// Envelope renders the wire response for a command outcome. A nil result with
// a nil error becomes the minimal success envelope.
func Envelope(result any, err error) json.RawMessage {
	if err != nil {
		out, mErr := json.Marshal(NewErrorResult(err))
		if mErr != nil {
			return json.RawMessage(`{"status":"error","error":{"code":1000,"message":"response encoding failed"}}`)
		}
		return out
	}
	if result == nil {
		result = OK()
	}
	out, mErr := json.Marshal(result)
	if mErr != nil {
		return Envelope(nil, mErr)
	}
	return out
}

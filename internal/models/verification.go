package models

const (
	// ReasonNoImage is reported when the request carries no image.
	ReasonNoImage = "No image uploaded"
	// ReasonNoGPS is reported when the image has no usable GPS metadata.
	ReasonNoGPS = "Image has no GPS EXIF data"
	// ReasonUploadTooBig is reported when the image exceeds the upload limit.
	ReasonUploadTooBig = "Image exceeds upload limit"

	reasonInsidePrefix  = "Image GPS is inside "
	reasonOutsidePrefix = "Image GPS is outside "
)

// VerificationResult is the verdict returned for a single upload.
type VerificationResult struct {
	Verified bool   `json:"verified"`
	Reason   string `json:"reason"`
}

// Inside builds the positive verdict for the given display name.
func Inside(country string) VerificationResult {
	return VerificationResult{Verified: true, Reason: reasonInsidePrefix + country}
}

// Outside builds the negative verdict for a coordinate that missed the boundary.
func Outside(country string) VerificationResult {
	return VerificationResult{Verified: false, Reason: reasonOutsidePrefix + country}
}

// Rejected builds a negative verdict carrying one of the Reason constants.
func Rejected(reason string) VerificationResult {
	return VerificationResult{Verified: false, Reason: reason}
}

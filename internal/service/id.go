package service

import (
	"go.mongodb.org/mongo-driver/v2/bson"
)

// PDFContentType is the only content type accepted for upload.
const PDFContentType = "application/pdf"

// ParseDocumentID validates id as a 24-character hex ObjectID and returns it in canonical lowercase form.
func ParseDocumentID(id string) (string, error) {
	oid, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return "", ErrInvalidIdentifier
	}
	return oid.Hex(), nil
}

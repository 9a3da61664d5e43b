package events

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"philately/db"
	"philately/models"
	"philately/utils"

	"github.com/julienschmidt/httprouter"
	"github.com/phpdave11/gofpdf"
	"github.com/skip2/go-qrcode"
	"go.mongodb.org/mongo-driver/bson"
)

func passSecret() []byte {
	if s := os.Getenv("PASS_SECRET"); s != "" {
		return []byte(s)
	}
	return []byte("philately-pass-secret")
}

// GeneratePassPayload returns eventID|rsvpID|uniqueCode|timestamp|signature.
func GeneratePassPayload(eventID, rsvpID, uniqueCode string) string {
	timestamp := time.Now().Unix()
	data := fmt.Sprintf("%s|%s|%s|%d", eventID, rsvpID, uniqueCode, timestamp)

	h := hmac.New(sha256.New, passSecret())
	h.Write([]byte(data))
	sig := base64.StdEncoding.EncodeToString(h.Sum(nil))

	return fmt.Sprintf("%s|%s", data, sig)
}

const allowedDrift = 24 * 60 * 60 // passes stay valid for a day

// VerifyPassPayload checks the signature and timestamp window of a scanned
// pass and returns its identifying parts.
func VerifyPassPayload(payload string) (eventID, rsvpID, uniqueCode string, err error) {
	parts := strings.Split(payload, "|")
	if len(parts) != 5 {
		return "", "", "", errors.New("invalid pass format")
	}

	eventID = parts[0]
	rsvpID = parts[1]
	uniqueCode = parts[2]
	timestampStr := parts[3]
	signature := parts[4]

	ts, err := strconv.ParseInt(timestampStr, 10, 64)
	if err != nil {
		return "", "", "", errors.New("invalid timestamp")
	}
	drift := time.Now().Unix() - ts
	if drift < 0 {
		drift = -drift
	}
	if drift > allowedDrift {
		return "", "", "", errors.New("pass expired or from the future")
	}

	data := fmt.Sprintf("%s|%s|%s|%s", eventID, rsvpID, uniqueCode, timestampStr)
	h := hmac.New(sha256.New, passSecret())
	h.Write([]byte(data))
	expectedSig := base64.StdEncoding.EncodeToString(h.Sum(nil))

	if !hmac.Equal([]byte(signature), []byte(expectedSig)) {
		return "", "", "", errors.New("invalid signature")
	}

	return eventID, rsvpID, uniqueCode, nil
}

// DownloadPass renders the caller's entry pass for an event as a PDF with a
// signed QR code.
func DownloadPass(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	eventID := ps.ByName("eventid")
	userID := utils.GetUserIDFromRequest(r)
	if userID == "" {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var rsvp models.RSVP
	if err := db.RSVPCollection.FindOne(ctx, bson.M{"eventid": eventID, "userid": userID}).Decode(&rsvp); err != nil {
		http.Error(w, "No registration found for this event", http.StatusNotFound)
		return
	}

	var event models.Event
	if err := db.EventsCollection.FindOne(ctx, bson.M{"eventid": eventID}).Decode(&event); err != nil {
		http.Error(w, "Event not found", http.StatusNotFound)
		return
	}

	qrPayload := GeneratePassPayload(eventID, rsvp.RSVPID, rsvp.UniqueCode)
	qrPNG, err := qrcode.Encode(qrPayload, qrcode.Medium, 256)
	if err != nil {
		log.Println("DownloadPass QR encode error:", err)
		http.Error(w, "Failed to generate QR code", http.StatusInternalServerError)
		return
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()
	pdf.SetFont("Arial", "B", 16)
	pdf.Cell(40, 10, "Exhibition Entry Pass")
	pdf.Ln(12)

	pdf.SetFont("Arial", "", 12)
	pdf.Cell(0, 10, fmt.Sprintf("Event: %s", event.Title))
	pdf.Ln(8)
	pdf.Cell(0, 10, fmt.Sprintf("Venue: %s, %s", event.Venue, event.City))
	pdf.Ln(8)
	pdf.Cell(0, 10, fmt.Sprintf("Date: %s", utils.FormatDate(event.Date)))
	pdf.Ln(8)
	pdf.Cell(0, 10, fmt.Sprintf("Name: %s", rsvp.Username))
	pdf.Ln(8)
	pdf.Cell(0, 10, fmt.Sprintf("Pass Code: %s", rsvp.UniqueCode))
	pdf.Ln(12)

	imageOpts := gofpdf.ImageOptions{ImageType: "PNG"}
	pdf.RegisterImageOptionsReader("qr", imageOpts, bytes.NewReader(qrPNG))
	pdf.ImageOptions("qr", 150, 40, 40, 40, false, imageOpts, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		log.Println("DownloadPass PDF output error:", err)
		http.Error(w, "Failed to generate PDF", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", "attachment; filename=pass-"+rsvp.UniqueCode+".pdf")
	w.WriteHeader(http.StatusOK)
	w.Write(buf.Bytes())
}

// VerifyPass lets gate staff confirm a scanned pass (admin only, enforced in
// routing).
func VerifyPass(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	payload := r.URL.Query().Get("payload")
	if payload == "" {
		http.Error(w, "Pass payload is required", http.StatusBadRequest)
		return
	}

	eventID, rsvpID, uniqueCode, err := VerifyPassPayload(payload)
	if err != nil {
		utils.RespondWithJSON(w, http.StatusOK, utils.M{"valid": false, "reason": err.Error()})
		return
	}

	var rsvp models.RSVP
	if err := db.RSVPCollection.FindOne(ctx, bson.M{
		"rsvpid":     rsvpID,
		"eventid":    eventID,
		"uniquecode": uniqueCode,
	}).Decode(&rsvp); err != nil {
		utils.RespondWithJSON(w, http.StatusOK, utils.M{"valid": false, "reason": "no matching registration"})
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, utils.M{"valid": true, "rsvp": rsvp})
}

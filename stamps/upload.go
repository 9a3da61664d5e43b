package stamps

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"philately/db"
	"philately/utils"

	"github.com/disintegration/imaging"
	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
)

var stampPicUploadDir = func() string {
	if dir := os.Getenv("STAMP_UPLOAD_DIR"); dir != "" {
		return dir
	}
	return "./static/stamppic"
}()

// UploadStampImage accepts a multipart image for a stamp, saves the
// original and a 300px-wide thumbnail, and records both paths.
func UploadStampImage(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 15*time.Second)
	defer cancel()

	stampID := ps.ByName("stampid")

	if err := r.ParseMultipartForm(10 << 20); err != nil {
		http.Error(w, "Unable to parse form", http.StatusBadRequest)
		return
	}

	file, header, err := r.FormFile("image")
	if err != nil {
		http.Error(w, "Missing image file", http.StatusBadRequest)
		return
	}
	defer file.Close()

	if !utils.ValidateImageFileType(w, header) {
		return
	}

	img, err := imaging.Decode(file)
	if err != nil {
		http.Error(w, "Failed to decode image", http.StatusBadRequest)
		return
	}

	thumbDir := filepath.Join(stampPicUploadDir, "thumb")
	if err := utils.EnsureDir(stampPicUploadDir); err != nil {
		log.Println("UploadStampImage mkdir error:", err)
		http.Error(w, "Failed to store image", http.StatusInternalServerError)
		return
	}
	if err := utils.EnsureDir(thumbDir); err != nil {
		log.Println("UploadStampImage mkdir error:", err)
		http.Error(w, "Failed to store image", http.StatusInternalServerError)
		return
	}

	fileName := fmt.Sprintf("%s.jpg", stampID)
	originalPath := filepath.Join(stampPicUploadDir, fileName)
	thumbnailPath := filepath.Join(thumbDir, fileName)

	if err := imaging.Save(img, originalPath); err != nil {
		log.Println("UploadStampImage save error:", err)
		http.Error(w, "Failed to store image", http.StatusInternalServerError)
		return
	}

	thumbImg := imaging.Resize(img, 300, 0, imaging.Lanczos)
	if err := imaging.Save(thumbImg, thumbnailPath); err != nil {
		log.Println("UploadStampImage thumbnail error:", err)
		http.Error(w, "Failed to store image", http.StatusInternalServerError)
		return
	}

	imagePath := "/stamppic/" + fileName
	thumbPath := "/stamppic/thumb/" + fileName

	res, err := db.StampsCollection.UpdateOne(ctx,
		bson.M{"stampid": stampID},
		bson.M{"$set": bson.M{"imagepath": imagePath, "thumbpath": thumbPath, "updated_at": time.Now()}},
	)
	if err != nil {
		log.Println("UploadStampImage UpdateOne error:", err)
		http.Error(w, "Failed to record image", http.StatusInternalServerError)
		return
	}
	if res.MatchedCount == 0 {
		http.Error(w, "Stamp not found", http.StatusNotFound)
		return
	}

	invalidateListCache()
	utils.RespondWithJSON(w, http.StatusOK, map[string]string{
		"imagePath": imagePath,
		"thumbPath": thumbPath,
	})
}

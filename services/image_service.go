package services

import (
	"context"
	"fmt"
	"log"
	"mime/multipart"
	"os"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	"github.com/google/uuid"

	"github.com/tablebook/reservation-app/utils"
)

// ImageService uploads restaurant profile images to Cloudinary and returns
// the durable URL. Upload failures surface to the caller as dependency
// errors; nothing is stored until the upload succeeds.
type ImageService struct {
	cld *cloudinary.Cloudinary
}

func NewImageService() *ImageService {
	url := os.Getenv("CLOUDINARY_URL")
	if url == "" {
		log.Println("Warning: CLOUDINARY_URL not set, image uploads disabled")
		return &ImageService{}
	}

	cld, err := cloudinary.NewFromURL(url)
	if err != nil {
		log.Printf("Warning: invalid CLOUDINARY_URL, image uploads disabled: %v", err)
		return &ImageService{}
	}
	return &ImageService{cld: cld}
}

// Upload stores the file under a generated public ID and returns its
// secure URL.
func (s *ImageService) Upload(ctx context.Context, file multipart.File, folder string) (string, error) {
	if s.cld == nil {
		return "", fmt.Errorf("%w: image hosting is not configured", utils.ErrDependency)
	}

	result, err := s.cld.Upload.Upload(ctx, file, uploader.UploadParams{
		PublicID: uuid.NewString(),
		Folder:   folder,
	})
	if err != nil {
		return "", fmt.Errorf("%w: %v", utils.ErrDependency, err)
	}
	return result.SecureURL, nil
}

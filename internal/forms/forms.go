// Package forms validates user input before it reaches the data
// model. A form either validates cleanly or carries a field->message
// map for re-rendering; nothing is persisted on failure.
package forms

import (
	"image"
	"mime/multipart"
	"strconv"

	// Decoders for image payload validation.
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	"yatube/internal/db"
	"yatube/internal/models"

	"github.com/gin-gonic/gin"
)

// PostForm shapes a post create/edit submission.
type PostForm struct {
	Text    string
	GroupID *uint
	Group   *models.Group
	Image   *multipart.FileHeader

	Errors map[string]string
}

// ParsePostForm reads the submission off the request. The image field
// is optional and absent on plain text submissions.
func ParsePostForm(c *gin.Context) *PostForm {
	form := &PostForm{
		Text:   c.PostForm("text"),
		Errors: map[string]string{},
	}

	if raw := c.PostForm("group"); raw != "" {
		if id, err := strconv.ParseUint(raw, 10, 64); err == nil {
			gid := uint(id)
			form.GroupID = &gid
		} else {
			form.Errors["group"] = "Select a valid group."
		}
	}

	if file, err := c.FormFile("image"); err == nil {
		form.Image = file
	}

	return form
}

// Valid runs all field checks. Group must resolve to an existing
// record; the image, when present, must be a decodable image payload.
func (f *PostForm) Valid() bool {
	if f.Text == "" {
		f.Errors["text"] = "Text is required."
	}

	if f.GroupID != nil && f.Group == nil {
		var group models.Group
		// Any lookup failure leaves the reference unverified, so the
		// form must not validate.
		if err := db.DB.First(&group, *f.GroupID).Error; err != nil {
			f.Errors["group"] = "Select a valid group."
		} else {
			f.Group = &group
		}
	}

	if f.Image != nil {
		if err := checkImage(f.Image); err != nil {
			f.Errors["image"] = "Upload a valid image."
		}
	}

	return len(f.Errors) == 0
}

// CommentForm shapes a comment submission.
type CommentForm struct {
	Text string

	Errors map[string]string
}

func ParseCommentForm(c *gin.Context) *CommentForm {
	return &CommentForm{
		Text:   c.PostForm("text"),
		Errors: map[string]string{},
	}
}

func (f *CommentForm) Valid() bool {
	if f.Text == "" {
		f.Errors["text"] = "Text is required."
	}
	return len(f.Errors) == 0
}

func checkImage(header *multipart.FileHeader) error {
	file, err := header.Open()
	if err != nil {
		return err
	}
	defer file.Close()

	_, _, err = image.DecodeConfig(file)
	return err
}

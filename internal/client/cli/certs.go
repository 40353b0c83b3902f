package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/dmitrijs2005/portfolio/internal/client/client"
	"github.com/dmitrijs2005/portfolio/internal/filex"
	"github.com/dmitrijs2005/portfolio/internal/models"
)

// Cert handles "cert upload <path> [n]" and "cert delete <file>". The
// optional n is the 1-based position of the certification the uploaded file
// is attached to.
func (a *App) Cert(ctx context.Context, args []string) error {
	if len(args) < 2 {
		return usage("cert upload <path> [n] | cert delete <file>")
	}
	if a.certs == nil {
		return client.ErrLocalMode
	}

	switch args[0] {
	case "upload":
		if len(args) > 3 {
			return usage("cert upload <path> [n]")
		}
		return a.uploadCertificate(ctx, args[1], args[2:])
	case "delete":
		return a.deleteCertificate(ctx, args[1])
	}
	return usage("cert upload <path> [n] | cert delete <file>")
}

func (a *App) uploadCertificate(ctx context.Context, path string, rest []string) error {
	index := -1
	if len(rest) == 1 {
		n, err := strconv.Atoi(rest[0])
		if err != nil || n < 1 {
			return fmt.Errorf("invalid certification number %q", rest[0])
		}
		index = n - 1
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	name := filepath.Base(path)
	ct := filex.TypeByExtension(name)
	if ct == "application/octet-stream" {
		ct = filex.DetectContentType(data)
	}
	if err := filex.CertificatePolicy.Check(name, ct, int64(len(data))); err != nil {
		return err
	}

	res, err := a.certs.UploadCertificate(ctx, name, ct, data)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Uploaded %s\n%s\n", res.ObjectKey, res.PublicURL)

	if index < 0 {
		return nil
	}
	return a.updateCertifications(ctx, func(list []models.Certification) (bool, error) {
		if index >= len(list) {
			return false, fmt.Errorf("no certification #%d (have %d)", index+1, len(list))
		}
		list[index].CertificateFile = res.ObjectKey
		list[index].CertificateURL = res.PublicURL
		return true, nil
	})
}

func (a *App) deleteCertificate(ctx context.Context, fileName string) error {
	if err := a.certs.DeleteCertificate(ctx, fileName); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Deleted %s\n", fileName)

	return a.updateCertifications(ctx, func(list []models.Certification) (bool, error) {
		changed := false
		for i := range list {
			if list[i].CertificateFile == fileName {
				list[i].CertificateFile = ""
				list[i].CertificateURL = ""
				changed = true
			}
		}
		return changed, nil
	})
}

// updateCertifications applies fn to the current certifications and saves
// the section when fn reports a change.
func (a *App) updateCertifications(ctx context.Context, fn func([]models.Certification) (bool, error)) error {
	data := a.data.GetPortfolioData(ctx)
	list := append([]models.Certification(nil), data.Certifications...)

	changed, err := fn(list)
	if err != nil || !changed {
		return err
	}
	if !a.data.UpdatePortfolioSection(ctx, models.SectionCertifications, list) {
		return errNotSaved
	}
	return nil
}

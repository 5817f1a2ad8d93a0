package receipt

import (
	"os"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("LocalStorage", func() {
	var (
		tmpDir  string
		storage *LocalStorage
	)

	BeforeEach(func() {
		tmpDir = filepath.Join(GinkgoT().TempDir(), "uploads")
		var err error
		storage, err = NewLocalStorage(tmpDir)
		Expect(err).NotTo(HaveOccurred())
	})

	It("creates the directory", func() {
		Expect(tmpDir).To(BeADirectory())
	})

	Describe("Save", func() {
		It("writes the file and returns its name", func() {
			name, err := storage.Save("test.jpg", []byte("test file content"))
			Expect(err).NotTo(HaveOccurred())
			Expect(name).To(Equal("test.jpg"))
			Expect(filepath.Join(tmpDir, "test.jpg")).To(BeAnExistingFile())
		})

		It("keeps files inside the directory", func() {
			name, err := storage.Save("../escape.jpg", []byte("x"))
			Expect(err).NotTo(HaveOccurred())
			Expect(name).To(Equal("escape.jpg"))
			Expect(filepath.Join(tmpDir, "escape.jpg")).To(BeAnExistingFile())
			Expect(filepath.Join(filepath.Dir(tmpDir), "escape.jpg")).NotTo(BeAnExistingFile())
		})
	})

	Describe("Get", func() {
		It("reads a saved file", func() {
			_, err := storage.Save("test.jpg", []byte("test file content"))
			Expect(err).NotTo(HaveOccurred())

			data, err := storage.Get("test.jpg")
			Expect(err).NotTo(HaveOccurred())
			Expect(string(data)).To(Equal("test file content"))
		})

		It("fails for missing files", func() {
			_, err := storage.Get("missing.jpg")
			Expect(err).To(MatchError(ContainSubstring("reading file")))
		})
	})

	Describe("Delete", func() {
		It("removes the file", func() {
			_, err := storage.Save("test.jpg", []byte("x"))
			Expect(err).NotTo(HaveOccurred())

			Expect(storage.Delete("test.jpg")).To(Succeed())
			Expect(filepath.Join(tmpDir, "test.jpg")).NotTo(BeAnExistingFile())
		})

		It("ignores files that are already gone", func() {
			Expect(storage.Delete("missing.jpg")).To(Succeed())
		})
	})

	It("fails when the directory cannot be created", func() {
		file := filepath.Join(GinkgoT().TempDir(), "file")
		Expect(os.WriteFile(file, []byte("x"), 0644)).To(Succeed())

		_, err := NewLocalStorage(filepath.Join(file, "sub"))
		Expect(err).To(MatchError(ContainSubstring("creating storage directory")))
	})
})

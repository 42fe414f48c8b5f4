package config_test

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/angeloszaimis/grade-server/config"
)

var _ = Describe("Watch", func() {
	var (
		path   string
		log    *slog.Logger
		ctx    context.Context
		cancel context.CancelFunc
		levels chan string
		done   chan error
	)

	BeforeEach(func() {
		path = writeConfig(GinkgoT().TempDir(), "logging:\n  level: info\n")
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
		ctx, cancel = context.WithCancel(context.Background())
		levels = make(chan string, 10)
		done = make(chan error, 1)

		go func() {
			done <- config.Watch(ctx, path, log, func(cfg *config.Config) {
				levels <- cfg.Logging.Level
			})
		}()
		// Give the watcher time to register the file.
		time.Sleep(100 * time.Millisecond)
	})

	AfterEach(func() {
		cancel()
		Eventually(done).Should(Receive(BeNil()))
	})

	It("should deliver the reloaded config on write", func() {
		Expect(os.WriteFile(path, []byte("logging:\n  level: debug\n"), 0644)).To(Succeed())
		Eventually(levels, 2*time.Second).Should(Receive(Equal("debug")))
	})

	It("should skip invalid reloads", func() {
		Expect(os.WriteFile(path, []byte("logging:\n  level: loud\n"), 0644)).To(Succeed())
		time.Sleep(100 * time.Millisecond)

		Expect(os.WriteFile(path, []byte("logging:\n  level: warn\n"), 0644)).To(Succeed())
		Eventually(levels, 2*time.Second).Should(Receive(Equal("warn")))
	})

	It("should keep reloading across saves that rename over the file", func() {
		replace := func(level string) {
			tmp := path + ".tmp"
			Expect(os.WriteFile(tmp, []byte("logging:\n  level: "+level+"\n"), 0644)).To(Succeed())
			Expect(os.Rename(tmp, path)).To(Succeed())
		}

		replace("debug")
		Eventually(levels, 2*time.Second).Should(Receive(Equal("debug")))

		replace("error")
		Eventually(levels, 2*time.Second).Should(Receive(Equal("error")))
	})

	It("should ignore other files in the same directory", func() {
		other := filepath.Join(filepath.Dir(path), "other.yaml")
		Expect(os.WriteFile(other, []byte("logging:\n  level: debug\n"), 0644)).To(Succeed())
		Consistently(levels, 300*time.Millisecond).ShouldNot(Receive())
	})

	It("should fail for a missing file", func() {
		err := config.Watch(ctx, filepath.Join(filepath.Dir(path), "nope.yaml"), log, func(*config.Config) {})
		Expect(err).To(HaveOccurred())
	})
})

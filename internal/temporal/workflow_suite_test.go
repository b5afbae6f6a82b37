package temporal

import (
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func TestReviewWorkflowSuite(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Review Workflow Suite")
}

package clock

import "testing"

type fakeLogger struct {
	errors []string
}

func (f *fakeLogger) Debug(string, ...any) {}
func (f *fakeLogger) Info(string, ...any)  {}
func (f *fakeLogger) Warn(string, ...any)  {}
func (f *fakeLogger) Error(msg string, _ ...any) {
	f.errors = append(f.errors, msg)
}

func TestNowMonotonicNSIsIncreasing(t *testing.T) {
	c := New()
	a := c.NowMonotonicNS()
	b := c.NowMonotonicNS()
	if b < a {
		t.Errorf("monotonic clock went backwards: %d then %d", a, b)
	}
}

func TestNowMonotonicNSLoggedNoErrorOnSuccess(t *testing.T) {
	c := New()
	logger := &fakeLogger{}
	now := c.NowMonotonicNSLogged(logger)
	if now == SentinelFailureNS {
		t.Fatal("expected a real timestamp, got the sentinel")
	}
	if len(logger.errors) != 0 {
		t.Errorf("expected no error log on success, got %v", logger.errors)
	}
}

func TestSplit(t *testing.T) {
	sec, nsec := Split(1_500_000_001)
	if sec != 1 || nsec != 500_000_001 {
		t.Errorf("Split() = (%d, %d), want (1, 500000001)", sec, nsec)
	}
}

func TestSplitZero(t *testing.T) {
	sec, nsec := Split(0)
	if sec != 0 || nsec != 0 {
		t.Errorf("Split(0) = (%d, %d), want (0, 0)", sec, nsec)
	}
}

func TestNowWalltimeNSMicrosecondAligned(t *testing.T) {
	c := New()
	ns := c.NowWalltimeNS()
	if ns%1000 != 0 {
		t.Errorf("NowWalltimeNS() = %d, want a multiple of 1000 (microsecond resolution)", ns)
	}
}

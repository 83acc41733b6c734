package happiness

import (
	"errors"
	"math"
	"testing"

	"github.com/golang/mock/gomock"

	"github.com/agbru/chebgo/internal/core"
	"github.com/agbru/chebgo/internal/core/mocks"
)

func TestCheckNormalizesVerdict(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name       string
		verdict    core.Verdict
		wantCutoff int
		wantEpslvl float64
	}{
		{"zero cutoff", core.Verdict{Happy: true}, 33, core.MachineEps},
		{"cutoff past the end", core.Verdict{Happy: true, Cutoff: 50, Epslevel: 1e-12}, 33, 1e-12},
		{"kept cutoff", core.Verdict{Happy: true, Cutoff: 12, Epslevel: 1e-20}, 12, core.MachineEps},
		{"NaN epslevel", core.Verdict{Cutoff: 33, Epslevel: math.NaN()}, 33, core.MachineEps},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			ctrl := gomock.NewController(t)
			rep := mocks.NewMockRepresentation(ctrl)
			rep.EXPECT().Len().Return(33).AnyTimes()
			checker := mocks.NewMockChecker(ctrl)
			checker.EXPECT().Check(rep, gomock.Nil(), gomock.Any(), gomock.Any(), gomock.Any()).Return(tt.verdict, nil)

			p := prefs(core.DefaultHappinessCheck)
			p.Checker = checker
			v, err := NewRegistry().Check(rep, nil, nil, core.Data{}, p)
			if err != nil {
				t.Fatal(err)
			}
			if v.Cutoff != tt.wantCutoff || v.Epslevel != tt.wantEpslvl || v.Happy != tt.verdict.Happy {
				t.Errorf("verdict = %+v, want cutoff %d epslevel %g", v, tt.wantCutoff, tt.wantEpslvl)
			}
		})
	}
}

func TestCheckPropagatesCheckerError(t *testing.T) {
	t.Parallel()
	ctrl := gomock.NewController(t)
	rep := mocks.NewMockRepresentation(ctrl)
	rep.EXPECT().Len().Return(17).AnyTimes()
	rep.EXPECT().Kind().Return(core.Chebyshev).AnyTimes()
	boom := errors.New("boom")
	checker := mocks.NewMockChecker(ctrl)
	checker.EXPECT().Check(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(core.Verdict{}, boom)

	r := NewRegistry()
	if err := r.Register(NewStrategy("failing", checker, core.Chebyshev)); err != nil {
		t.Fatal(err)
	}
	if _, err := r.Check(rep, nil, nil, core.Data{}, prefs("failing")); !errors.Is(err, boom) {
		t.Errorf("error = %v, want boom", err)
	}
}

func TestCheckSkipsEmptyRepresentation(t *testing.T) {
	t.Parallel()
	ctrl := gomock.NewController(t)
	rep := mocks.NewMockRepresentation(ctrl)
	rep.EXPECT().Len().Return(0).AnyTimes()
	checker := mocks.NewMockChecker(ctrl)

	p := prefs(core.DefaultHappinessCheck)
	p.Checker = checker
	if _, err := NewRegistry().Check(rep, nil, nil, core.Data{}, p); !errors.Is(err, core.ErrEmpty) {
		t.Errorf("error = %v, want ErrEmpty", err)
	}
}

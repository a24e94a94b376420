// Copyright (c) 2025 The IdoContract developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package launchpad

import (
	"math"
	"math/big"
	"strconv"

	"github.com/flamingo-finance/IdoContract/builtin/launchpad/project"
	"github.com/flamingo-finance/IdoContract/builtin/launchpad/tier"
	"github.com/flamingo-finance/IdoContract/builtin/params"
	"github.com/flamingo-finance/IdoContract/builtin/reverts"
	"github.com/flamingo-finance/IdoContract/ido"
)

// window is the height schedule of a reviewed project.
type window struct {
	reviewed uint64
	vote     uint64
	swap     uint64
}

func (l *Launchpad) windowOf(p *project.Project) (*window, error) {
	vote, err := l.params.Get(params.VoteTimeSpan)
	if err != nil {
		return nil, err
	}
	swap, err := l.params.Get(params.SwapTimeSpan)
	if err != nil {
		return nil, err
	}
	return &window{reviewed: uint64(p.ReviewedHeight), vote: vote, swap: swap}, nil
}

// voteClosed reports whether the vote window is over at now.
func (w *window) voteClosed(now uint64) bool { return now >= w.reviewed+w.vote }

// round1 is [R+V, R+V+S).
func (w *window) round1() (uint64, uint64) {
	start := w.reviewed + w.vote
	return start, start + w.swap
}

// round2 is [R+V+S, R+V+2S).
func (w *window) round2() (uint64, uint64) {
	start := w.reviewed + w.vote + w.swap
	return start, start + w.swap
}

// claimOpen reports whether claims are open at now, which they are from round 2 on.
func (w *window) claimOpen(now uint64) bool {
	start, _ := w.round2()
	return now >= start
}

// reviewedProject loads ref and checks it is reviewed and not ended.
func (l *Launchpad) reviewedProject(ref ido.Address) (*project.Project, error) {
	p, err := l.projects.Existing(ref)
	if err != nil {
		return nil, err
	}
	if !p.IsReviewed {
		return nil, reverts.ErrProjectNotReviewed.Withf("project %v", ref)
	}
	if p.IsEnd {
		return nil, reverts.ErrProjectEnded.Withf("project %v", ref)
	}
	return p, nil
}

// Vote locks the tier weight of user into project ref.
func (l *Launchpad) Vote(user, ref ido.Address) error {
	if err := l.requireWitness(user); err != nil {
		return err
	}
	p, err := l.reviewedProject(ref)
	if err != nil {
		return err
	}
	w, err := l.windowOf(p)
	if err != nil {
		return err
	}
	if w.voteClosed(uint64(l.env.CurrentHeight())) {
		return reverts.ErrVoteWindowClosed.Withf("project %v", ref)
	}

	level, err := l.stakes.CurrentLevel(user)
	if err != nil {
		return err
	}
	if level < tier.Level(p.AllowedLevel) {
		return reverts.ErrInsufficientTier.Withf("%v below %v", level, tier.Level(p.AllowedLevel))
	}
	alloc, err := l.allocations.Get(ref, user)
	if err != nil {
		return err
	}
	if alloc.Weight != 0 {
		return reverts.ErrAlreadyVoted.Withf("project %v", ref)
	}
	weight, err := l.tiers.WeightForLevel(level)
	if err != nil {
		return err
	}
	if weight > math.MaxUint64-p.TotalWeight {
		return reverts.ErrWeightOverflow
	}

	p.TotalWeight += weight
	alloc.Weight = weight
	if err := l.projects.Update(ref, p); err != nil {
		return err
	}
	if err := l.allocations.Set(ref, user, alloc); err != nil {
		return err
	}
	l.emit(EventVoted, &user, &ref, new(big.Int).SetUint64(weight), map[string]string{
		"level":       level.String(),
		"totalWeight": strconv.FormatUint(p.TotalWeight, 10),
	})
	return nil
}

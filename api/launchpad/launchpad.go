// Copyright (c) 2025 The IdoContract developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package launchpad

import (
	"context"
	"encoding/json"
	"math/big"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"

	"github.com/flamingo-finance/IdoContract/api/utils"
	"github.com/flamingo-finance/IdoContract/builtin"
	"github.com/flamingo-finance/IdoContract/builtin/launchpad/allocation"
	"github.com/flamingo-finance/IdoContract/builtin/reverts"
	"github.com/flamingo-finance/IdoContract/ido"
	"github.com/flamingo-finance/IdoContract/runtime"
)

const defaultPageLimit = 20

type Launchpad struct {
	rt       *runtime.Runtime
	addr     ido.Address
	maxLimit uint64
}

func New(rt *runtime.Runtime, addr ido.Address, maxLimit uint64) *Launchpad {
	return &Launchpad{rt, addr, maxLimit}
}

func (l *Launchpad) call(ctx context.Context, method string, args any) (any, error) {
	raw, err := json.Marshal(args)
	if err != nil {
		return nil, err
	}
	out, err := l.rt.Call(ctx, &builtin.Call{Contract: l.addr, Method: method, Args: raw})
	if errors.Is(err, reverts.ErrProjectNotFound) {
		return nil, utils.NotFound(err)
	}
	return out, err
}

func (l *Launchpad) handleGetConfig(w http.ResponseWriter, req *http.Request) error {
	var cfg Config
	err := l.rt.View(req.Context(), func(contracts *builtin.Contracts) error {
		lp, err := contracts.Launchpad(l.addr)
		if err != nil {
			return err
		}
		cfg.Address = l.addr
		if cfg.Admin, err = lp.Admin(); err != nil {
			return err
		}
		if cfg.StakeAsset, err = lp.StakeAsset(); err != nil {
			return err
		}
		if cfg.SpendAsset, err = lp.SpendAsset(); err != nil {
			return err
		}
		if cfg.Params, err = lp.Params().All(); err != nil {
			return err
		}
		thresholds, err := lp.Tiers().Thresholds()
		if err != nil && !errors.Is(err, reverts.ErrConfigurationMissing) {
			return err
		}
		for _, t := range thresholds {
			cfg.Thresholds = append(cfg.Thresholds, (*builtin.Amount)(t))
		}
		if cfg.Weights, err = lp.Tiers().Weights(); err != nil {
			return err
		}
		cfg.ProjectsCount, err = lp.GetProjectsCount()
		return err
	})
	if err != nil {
		return err
	}
	cfg.Height = l.rt.Height()
	return utils.WriteJSON(w, &cfg)
}

func (l *Launchpad) handleGetStake(w http.ResponseWriter, req *http.Request) error {
	user, err := utils.AddressVar(req, "user")
	if err != nil {
		return err
	}
	out, err := l.call(req.Context(), "getStake", utils.M{"user": user})
	if err != nil {
		return err
	}
	return utils.WriteJSON(w, out)
}

func (l *Launchpad) handleGetProject(w http.ResponseWriter, req *http.Request) error {
	ref, err := utils.AddressVar(req, "project")
	if err != nil {
		return err
	}
	out, err := l.call(req.Context(), "getProject", utils.M{"project": ref})
	if err != nil {
		return err
	}
	return utils.WriteJSON(w, out)
}

func (l *Launchpad) handleListProjects(w http.ResponseWriter, req *http.Request) error {
	cursor, err := utils.AddressQuery(req, "cursor")
	if err != nil {
		return err
	}
	limit, err := utils.UintQuery(req, "limit", defaultPageLimit)
	if err != nil {
		return err
	}
	if limit == 0 || limit > l.maxLimit {
		return utils.BadRequest(errors.Errorf("limit: must be between 1 and %d", l.maxLimit))
	}
	var from ido.Address
	if cursor != nil {
		from = *cursor
	}

	page := ProjectPage{Projects: []*builtin.ProjectView{}}
	err = l.rt.View(req.Context(), func(contracts *builtin.Contracts) error {
		lp, err := contracts.Launchpad(l.addr)
		if err != nil {
			return err
		}
		refs, next, err := lp.ProjectPage(from, int(limit))
		if err != nil {
			return err
		}
		for _, ref := range refs {
			p, err := lp.GetProject(ref)
			if err != nil {
				return err
			}
			page.Projects = append(page.Projects, &builtin.ProjectView{
				Ref:            ref,
				ReviewedHeight: p.ReviewedHeight,
				OfferingAmount: (*builtin.Amount)(p.OfferingAmount),
				OfferingPrice:  (*builtin.Amount)(p.OfferingPrice),
				TotalWeight:    p.TotalWeight,
				Token:          p.Token,
				IsReviewed:     p.IsReviewed,
				IsEnd:          p.IsEnd,
				AllowedLevel:   p.AllowedLevel,
			})
		}
		if !next.IsZero() {
			page.Next = &next
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, reverts.ErrProjectNotFound) {
			return utils.BadRequest(errors.WithMessage(err, "cursor"))
		}
		return err
	}
	return utils.WriteJSON(w, &page)
}

func (l *Launchpad) handleGetAllocation(w http.ResponseWriter, req *http.Request) error {
	ref, err := utils.AddressVar(req, "project")
	if err != nil {
		return err
	}
	user, err := utils.AddressVar(req, "user")
	if err != nil {
		return err
	}
	out, err := l.call(req.Context(), "getUserInfo", utils.M{"user": user, "project": ref})
	if err != nil {
		return err
	}
	info := out.(*builtin.UserInfoView)
	remaining := allocation.Remaining((*big.Int)(info.SwapAmountMax), (*big.Int)(info.SwappedAmount))
	return utils.WriteJSON(w, &Allocation{
		UserInfoView: info,
		Remaining:    (*builtin.Amount)(remaining),
	})
}

func (l *Launchpad) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("/config").Methods(http.MethodGet).HandlerFunc(utils.WrapHandlerFunc(l.handleGetConfig))
	sub.Path("/stakes/{user}").Methods(http.MethodGet).HandlerFunc(utils.WrapHandlerFunc(l.handleGetStake))
	sub.Path("/projects").Methods(http.MethodGet).HandlerFunc(utils.WrapHandlerFunc(l.handleListProjects))
	sub.Path("/projects/{project}").Methods(http.MethodGet).HandlerFunc(utils.WrapHandlerFunc(l.handleGetProject))
	sub.Path("/projects/{project}/allocations/{user}").Methods(http.MethodGet).HandlerFunc(utils.WrapHandlerFunc(l.handleGetAllocation))
}

// Copyright (c) 2025 The IdoContract developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package launchpad

import (
	"github.com/flamingo-finance/IdoContract/builtin"
	"github.com/flamingo-finance/IdoContract/ido"
)

type Config struct {
	Address       ido.Address       `json:"address"`
	Admin         ido.Address       `json:"admin"`
	StakeAsset    ido.Address       `json:"stakeAsset"`
	SpendAsset    ido.Address       `json:"spendAsset"`
	Params        map[string]uint64 `json:"params"`
	Thresholds    []*builtin.Amount `json:"thresholds"`
	Weights       []uint64          `json:"weights"`
	ProjectsCount uint64            `json:"projectsCount"`
	Height        uint32            `json:"height"`
}

// ProjectPage is a page of projects in registration order.
// Next is the cursor of the following page, nil on the last one.
type ProjectPage struct {
	Projects []*builtin.ProjectView `json:"projects"`
	Next     *ido.Address           `json:"next"`
}

type Allocation struct {
	*builtin.UserInfoView
	Remaining *builtin.Amount `json:"remaining"`
}

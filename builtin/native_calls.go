// Copyright (c) 2025 The IdoContract developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package builtin

import (
	"encoding/json"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common/math"

	"github.com/flamingo-finance/IdoContract/builtin/launchpad"
	"github.com/flamingo-finance/IdoContract/builtin/launchpad/tier"
	"github.com/flamingo-finance/IdoContract/builtin/pair"
	"github.com/flamingo-finance/IdoContract/builtin/registry"
	"github.com/flamingo-finance/IdoContract/builtin/reverts"
	"github.com/flamingo-finance/IdoContract/ido"
)

// Call is a native method invocation on a deployed contract.
type Call struct {
	Contract ido.Address     `json:"contract"`
	Method   string          `json:"method"`
	Args     json.RawMessage `json:"args,omitempty"`
}

type methodKey struct {
	kind registry.Kind
	name string
}

type nativeMethod struct {
	readonly bool
	run      func(env *callEnv) (any, error)
}

var nativeMethods = make(map[methodKey]*nativeMethod)

type callEnv struct {
	*Contracts
	target ido.Address
	args   json.RawMessage
}

type argsError struct{ cause error }

// Args decodes the call arguments into v. It panics on malformed input, Exec recovers.
func (env *callEnv) Args(v any) {
	if len(env.args) == 0 {
		panic(argsError{fmt.Errorf("missing args")})
	}
	if err := json.Unmarshal(env.args, v); err != nil {
		panic(argsError{err})
	}
}

func (env *callEnv) launchpad() *launchpad.Launchpad {
	lp, err := env.Launchpad(env.target)
	if err != nil {
		panic(err)
	}
	return lp
}

// Amount is a non-negative JSON number or hex string.
type Amount = math.HexOrDecimal256

func amount(a *Amount) *big.Int {
	if a == nil {
		return new(big.Int)
	}
	return (*big.Int)(a)
}

func amounts(as []*Amount) []*big.Int {
	out := make([]*big.Int, len(as))
	for i, a := range as {
		out[i] = amount(a)
	}
	return out
}

// IsReadonly reports whether the method named by call leaves state untouched.
// Unknown methods are reported as not readonly.
func (c *Contracts) IsReadonly(call *Call) (bool, error) {
	kind, err := c.KindOf(call.Contract)
	if err != nil {
		return false, err
	}
	m, ok := nativeMethods[methodKey{kind, call.Method}]
	return ok && m.readonly, nil
}

// Exec runs call. Every error is a revert of the invocation.
func (c *Contracts) Exec(call *Call) (out any, err error) {
	kind, err := c.KindOf(call.Contract)
	if err != nil {
		return nil, err
	}
	m, ok := nativeMethods[methodKey{kind, call.Method}]
	if !ok {
		return nil, reverts.ErrInvalidParam.Withf("no method %q on %v %v", call.Method, kind, call.Contract)
	}

	defer func() {
		if e := recover(); e != nil {
			switch e := e.(type) {
			case argsError:
				err = reverts.ErrInvalidParam.Withf("bad args: %v", e.cause)
			case error:
				err = e
			default:
				err = fmt.Errorf("native: %v", e)
			}
		}
	}()
	return m.run(&callEnv{c, call.Contract, call.Args})
}

type userProjectArgs struct {
	User    ido.Address `json:"user"`
	Project ido.Address `json:"project"`
}

type swapArgs struct {
	User    ido.Address `json:"user"`
	Project ido.Address `json:"project"`
	Amount  *Amount     `json:"amount"`
}

// StakeView is the result of getStake.
type StakeView struct {
	LastStakeHeight uint32  `json:"lastStakeHeight"`
	StakeAmount     *Amount `json:"stakeAmount"`
	StakeLevel      uint8   `json:"stakeLevel"`
	LevelName       string  `json:"levelName"`
}

// ProjectView is the result of getProject.
type ProjectView struct {
	Ref            ido.Address `json:"ref"`
	ReviewedHeight uint32      `json:"reviewedHeight"`
	OfferingAmount *Amount     `json:"offeringAmount"`
	OfferingPrice  *Amount     `json:"offeringPrice"`
	TotalWeight    uint64      `json:"totalWeight"`
	Token          ido.Address `json:"token"`
	IsReviewed     bool        `json:"isReviewed"`
	IsEnd          bool        `json:"isEnd"`
	AllowedLevel   uint8       `json:"allowedLevel"`
}

// UserInfoView is the result of getUserInfo.
type UserInfoView struct {
	Weight        uint64  `json:"weight"`
	SwapAmountMax *Amount `json:"swapAmountMax"`
	SwappedAmount *Amount `json:"swappedAmount"`
	ClaimAmount   *Amount `json:"claimAmount"`
}

func init() {
	type define struct {
		name     string
		readonly bool
		run      func(env *callEnv) (any, error)
	}
	register := func(kind registry.Kind, defines []define) {
		for _, def := range defines {
			key := methodKey{kind, def.name}
			if _, dup := nativeMethods[key]; dup {
				panic("duplicated native method " + def.name)
			}
			nativeMethods[key] = &nativeMethod{readonly: def.readonly, run: def.run}
		}
	}

	register(registry.KindAsset, []define{
		{"transfer", false, func(env *callEnv) (any, error) {
			var args struct {
				From   ido.Address `json:"from"`
				To     ido.Address `json:"to"`
				Amount *Amount     `json:"amount"`
			}
			env.Args(&args)
			ok, err := env.Transfer(ido.Address{}, env.target, args.From, args.To, amount(args.Amount))
			if err != nil {
				return nil, err
			}
			if !ok {
				return nil, reverts.ErrTransferFailed
			}
			return true, nil
		}},
		{"balanceOf", true, func(env *callEnv) (any, error) {
			var args struct {
				Holder ido.Address `json:"holder"`
			}
			env.Args(&args)
			a, err := env.Asset(env.target)
			if err != nil {
				return nil, err
			}
			bal, err := a.BalanceOf(args.Holder)
			return (*Amount)(bal), err
		}},
		{"totalSupply", true, func(env *callEnv) (any, error) {
			a, err := env.Asset(env.target)
			if err != nil {
				return nil, err
			}
			supply, err := a.TotalSupply()
			return (*Amount)(supply), err
		}},
		{"meta", true, func(env *callEnv) (any, error) {
			a, err := env.Asset(env.target)
			if err != nil {
				return nil, err
			}
			return a.Meta()
		}},
	})

	register(registry.KindLaunchpad, []define{
		{"setAdmin", false, func(env *callEnv) (any, error) {
			var args struct {
				Admin ido.Address `json:"admin"`
			}
			env.Args(&args)
			return nil, env.launchpad().SetAdmin(args.Admin)
		}},
		{"setStakeAsset", false, func(env *callEnv) (any, error) {
			var args struct {
				Asset ido.Address `json:"asset"`
			}
			env.Args(&args)
			return nil, env.launchpad().SetStakeAsset(args.Asset)
		}},
		{"setSpendAsset", false, func(env *callEnv) (any, error) {
			var args struct {
				Asset ido.Address `json:"asset"`
			}
			env.Args(&args)
			return nil, env.launchpad().SetSpendAsset(args.Asset)
		}},
		{"setParam", false, func(env *callEnv) (any, error) {
			var args struct {
				Name  string              `json:"name"`
				Value math.HexOrDecimal64 `json:"value"`
			}
			env.Args(&args)
			return nil, env.launchpad().SetParam(args.Name, uint64(args.Value))
		}},
		{"setThresholds", false, func(env *callEnv) (any, error) {
			var args struct {
				Amounts []*Amount `json:"amounts"`
			}
			env.Args(&args)
			return nil, env.launchpad().SetThresholds(amounts(args.Amounts))
		}},
		{"setWeightScheme", false, func(env *callEnv) (any, error) {
			var args struct {
				Weights []uint64 `json:"weights"`
			}
			env.Args(&args)
			return nil, env.launchpad().SetWeightScheme(args.Weights)
		}},
		{"unstake", false, func(env *callEnv) (any, error) {
			var args struct {
				User   ido.Address `json:"user"`
				Amount *Amount     `json:"amount"`
			}
			env.Args(&args)
			return nil, env.launchpad().Unstake(args.User, amount(args.Amount))
		}},
		{"registerProject", false, func(env *callEnv) (any, error) {
			var args struct {
				Registrant     ido.Address `json:"registrant"`
				OfferingAmount *Amount     `json:"offeringAmount"`
				OfferingPrice  *Amount     `json:"offeringPrice"`
				Project        ido.Address `json:"project"`
				AllowedLevel   uint8       `json:"allowedLevel"`
				Token          ido.Address `json:"token"`
			}
			env.Args(&args)
			return nil, env.launchpad().RegisterProject(&launchpad.Registration{
				Registrant:     args.Registrant,
				OfferingAmount: amount(args.OfferingAmount),
				OfferingPrice:  amount(args.OfferingPrice),
				Ref:            args.Project,
				AllowedLevel:   args.AllowedLevel,
				Token:          args.Token,
			})
		}},
		{"reviewProject", false, func(env *callEnv) (any, error) {
			var args struct {
				Project ido.Address `json:"project"`
			}
			env.Args(&args)
			return nil, env.launchpad().ReviewProject(args.Project)
		}},
		{"endProject", false, func(env *callEnv) (any, error) {
			var args struct {
				Project ido.Address `json:"project"`
			}
			env.Args(&args)
			return nil, env.launchpad().EndProject(args.Project)
		}},
		{"vote", false, func(env *callEnv) (any, error) {
			var args userProjectArgs
			env.Args(&args)
			return nil, env.launchpad().Vote(args.User, args.Project)
		}},
		{"swapToken", false, func(env *callEnv) (any, error) {
			var args swapArgs
			env.Args(&args)
			return nil, env.launchpad().SwapToken(args.User, args.Project, amount(args.Amount))
		}},
		{"swapTokenSecondRound", false, func(env *callEnv) (any, error) {
			var args swapArgs
			env.Args(&args)
			return nil, env.launchpad().SwapTokenSecondRound(args.User, args.Project, amount(args.Amount))
		}},
		{"claimToken", false, func(env *callEnv) (any, error) {
			var args userProjectArgs
			env.Args(&args)
			return nil, env.launchpad().ClaimToken(args.User, args.Project)
		}},
		{"getStake", true, func(env *callEnv) (any, error) {
			var args struct {
				User ido.Address `json:"user"`
			}
			env.Args(&args)
			rec, err := env.launchpad().GetStake(args.User)
			if err != nil {
				return nil, err
			}
			return &StakeView{
				LastStakeHeight: rec.LastStakeHeight,
				StakeAmount:     (*Amount)(rec.StakeAmount),
				StakeLevel:      rec.StakeLevel,
				LevelName:       tier.Level(rec.StakeLevel).String(),
			}, nil
		}},
		{"getProject", true, func(env *callEnv) (any, error) {
			var args struct {
				Project ido.Address `json:"project"`
			}
			env.Args(&args)
			p, err := env.launchpad().GetProject(args.Project)
			if err != nil {
				return nil, err
			}
			return &ProjectView{
				Ref:            args.Project,
				ReviewedHeight: p.ReviewedHeight,
				OfferingAmount: (*Amount)(p.OfferingAmount),
				OfferingPrice:  (*Amount)(p.OfferingPrice),
				TotalWeight:    p.TotalWeight,
				Token:          p.Token,
				IsReviewed:     p.IsReviewed,
				IsEnd:          p.IsEnd,
				AllowedLevel:   p.AllowedLevel,
			}, nil
		}},
		{"getProjectsCount", true, func(env *callEnv) (any, error) {
			return env.launchpad().GetProjectsCount()
		}},
		{"getAllProjects", true, func(env *callEnv) (any, error) {
			refs := []ido.Address{}
			for ref, err := range env.launchpad().ListAllProjects() {
				if err != nil {
					return nil, err
				}
				refs = append(refs, ref)
			}
			return refs, nil
		}},
		{"getUserInfo", true, func(env *callEnv) (any, error) {
			var args userProjectArgs
			env.Args(&args)
			info, err := env.launchpad().GetUserInfo(args.User, args.Project)
			if err != nil {
				return nil, err
			}
			return &UserInfoView{
				Weight:        info.Weight,
				SwapAmountMax: (*Amount)(info.SwapAmountMax),
				SwappedAmount: (*Amount)(info.SwappedAmount),
				ClaimAmount:   (*Amount)(info.ClaimAmount),
			}, nil
		}},
		{"getParams", true, func(env *callEnv) (any, error) {
			return env.launchpad().Params().All()
		}},
	})

	register(registry.KindPair, []define{
		{"setAssetHash", false, func(env *callEnv) (any, error) {
			var args struct {
				Asset ido.Address `json:"asset"`
			}
			env.Args(&args)
			return nil, env.pair().SetAssetHash(args.Asset)
		}},
		{"setTokenHash", false, func(env *callEnv) (any, error) {
			var args struct {
				Token ido.Address `json:"token"`
			}
			env.Args(&args)
			return nil, env.pair().SetTokenHash(args.Token)
		}},
		{"setIdoContract", false, func(env *callEnv) (any, error) {
			var args struct {
				Contract ido.Address `json:"contract"`
			}
			env.Args(&args)
			return nil, env.pair().SetIdoContract(args.Contract)
		}},
		{"setPrice", false, func(env *callEnv) (any, error) {
			var args struct {
				Price *Amount `json:"price"`
			}
			env.Args(&args)
			return nil, env.pair().SetPrice(amount(args.Price))
		}},
		{"transferOwnership", false, func(env *callEnv) (any, error) {
			var args struct {
				Owner ido.Address `json:"owner"`
			}
			env.Args(&args)
			return nil, env.pair().TransferOwnership(args.Owner)
		}},
		{"withdrawAsset", false, func(env *callEnv) (any, error) {
			var args struct {
				Amount *Amount `json:"amount"`
			}
			env.Args(&args)
			return nil, env.pair().WithdrawAsset(amount(args.Amount))
		}},
		{"withdrawToken", false, func(env *callEnv) (any, error) {
			var args struct {
				Amount *Amount `json:"amount"`
			}
			env.Args(&args)
			return nil, env.pair().WithdrawToken(amount(args.Amount))
		}},
		{"getConfig", true, func(env *callEnv) (any, error) {
			cfg, err := env.pair().Config()
			if err != nil {
				return nil, err
			}
			return map[string]any{
				"owner":       cfg.Owner,
				"spendAsset":  cfg.SpendAsset,
				"token":       cfg.Token,
				"idoContract": cfg.IdoContract,
				"price":       (*Amount)(cfg.Price),
			}, nil
		}},
	})
}

func (env *callEnv) pair() *pair.Pair {
	p, err := env.Pair(env.target)
	if err != nil {
		panic(err)
	}
	return p
}

// Copyright (c) 2025 The IdoContract developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package launchpad

import (
	"errors"
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flamingo-finance/IdoContract/builtin/params"
	"github.com/flamingo-finance/IdoContract/builtin/reverts"
	"github.com/flamingo-finance/IdoContract/ido"
	"github.com/flamingo-finance/IdoContract/lvldb"
	"github.com/flamingo-finance/IdoContract/state"
	"github.com/flamingo-finance/IdoContract/xenv"
)

var (
	admin   = ido.BytesToAddress([]byte("admin"))
	alice   = ido.BytesToAddress([]byte("alice"))
	bob     = ido.BytesToAddress([]byte("bob"))
	carol   = ido.BytesToAddress([]byte("carol"))
	lpAddr  = ido.BytesToAddress([]byte("launchpad"))
	flm     = ido.BytesToAddress([]byte("FLM"))
	usd     = ido.BytesToAddress([]byte("fUSDT"))
	tok     = ido.BytesToAddress([]byte("TOKEN"))
	pairRef = ido.BytesToAddress([]byte("pair"))
)

type testEnv struct {
	height    uint32
	witnesses map[ido.Address]bool
	events    []*xenv.Event
}

func (e *testEnv) CurrentHeight() uint32                { return e.height }
func (e *testEnv) IsAuthorizedBy(addr ido.Address) bool { return e.witnesses[addr] }
func (e *testEnv) Emit(ev *xenv.Event)                  { e.events = append(e.events, ev) }

func (e *testEnv) as(who ...ido.Address) {
	e.witnesses = make(map[ido.Address]bool)
	for _, w := range who {
		e.witnesses[w] = true
	}
}

func (e *testEnv) last() *xenv.Event {
	if len(e.events) == 0 {
		return nil
	}
	return e.events[len(e.events)-1]
}

// world is a minimal set of assets and relays around a launchpad.
type world struct {
	t      *testing.T
	st     *state.State
	env    *testEnv
	lp     *Launchpad
	assets map[ido.Address]*fakeAsset
	relays map[ido.Address]*fakeRelay
}

type fakeAsset struct {
	w        *world
	addr     ido.Address
	balances map[ido.Address]*big.Int
	// refuse makes every transfer report failure
	refuse bool
	// skim is taken from the sender on top of every outgoing launchpad transfer
	skim *big.Int
}

func (a *fakeAsset) BalanceOf(holder ido.Address) (*big.Int, error) {
	return new(big.Int).Set(ido.BigOrZero(a.balances[holder])), nil
}

func (a *fakeAsset) Transfer(from, to ido.Address, amount *big.Int) (bool, error) {
	_, isRelay := a.w.relays[from]
	if from != lpAddr && !isRelay && !a.w.env.IsAuthorizedBy(from) {
		return false, nil
	}
	if a.refuse {
		return false, nil
	}
	debit := new(big.Int).Set(amount)
	if a.skim != nil && from == lpAddr {
		debit.Add(debit, a.skim)
	}
	bal := ido.BigOrZero(a.balances[from])
	if bal.Cmp(debit) < 0 {
		return false, nil
	}
	a.balances[from] = new(big.Int).Sub(bal, debit)
	a.balances[to] = new(big.Int).Add(ido.BigOrZero(a.balances[to]), amount)

	if to == lpAddr {
		if err := a.w.lp.OnPayment(a.addr, from, amount); err != nil {
			return false, err
		}
	}
	if r, ok := a.w.relays[to]; ok {
		if err := r.onPayment(a.addr, from, amount); err != nil {
			return false, err
		}
	}
	return true, nil
}

type fakeRelay struct {
	w        *world
	addr     ido.Address
	token    ido.Address
	price    *big.Int
	register bool
	swap     bool
}

func (r *fakeRelay) SetReceiveOnProjectRegister() error { r.register = true; return nil }
func (r *fakeRelay) SetReceiveOnSwap() error            { r.swap = true; return nil }

func (r *fakeRelay) onPayment(asset, from ido.Address, amount *big.Int) error {
	switch {
	case asset == usd && r.swap:
		r.swap = false
		out := new(big.Int).Div(new(big.Int).Mul(amount, ido.PriceDenominator), r.price)
		ok, err := r.w.assets[r.token].Transfer(r.addr, from, out)
		if err != nil {
			return err
		}
		if !ok {
			return errors.New("relay out of tokens")
		}
		return nil
	case asset == r.token && r.register:
		r.register = false
		return nil
	}
	return errors.New("relay rejected payment")
}

func (w *world) Asset(addr ido.Address) (Asset, bool, error) {
	a, ok := w.assets[addr]
	if !ok {
		return nil, false, nil
	}
	return a, true, nil
}

func (w *world) Relay(addr ido.Address) (Relay, bool, error) {
	r, ok := w.relays[addr]
	if !ok {
		return nil, false, nil
	}
	return r, true, nil
}

func (w *world) mint(asset, holder ido.Address, amount int64) {
	a := w.assets[asset]
	a.balances[holder] = new(big.Int).Add(ido.BigOrZero(a.balances[holder]), big.NewInt(amount))
}

func (w *world) balance(asset, holder ido.Address) *big.Int {
	b, _ := w.assets[asset].BalanceOf(holder)
	return b
}

// stake moves amount of the stake asset from user into the launchpad.
func (w *world) stake(user ido.Address, amount int64) {
	w.env.as(user)
	ok, err := w.assets[flm].Transfer(user, lpAddr, big.NewInt(amount))
	require.NoError(w.t, err)
	require.True(w.t, ok)
}

func newWorld(t *testing.T) *world {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	w := &world{
		t:      t,
		st:     state.NewStater(db, 0).NewState(),
		env:    &testEnv{height: 1},
		assets: make(map[ido.Address]*fakeAsset),
		relays: make(map[ido.Address]*fakeRelay),
	}
	for _, addr := range []ido.Address{flm, usd, tok} {
		w.assets[addr] = &fakeAsset{w: w, addr: addr, balances: make(map[ido.Address]*big.Int)}
	}
	w.relays[pairRef] = &fakeRelay{w: w, addr: pairRef, token: tok, price: big.NewInt(1e18)}
	w.lp = New(lpAddr, w.st, w.env, w)

	require.NoError(t, w.lp.Deploy(admin))
	w.env.as(admin)
	require.NoError(t, w.lp.SetStakeAsset(flm))
	require.NoError(t, w.lp.SetSpendAsset(usd))
	require.NoError(t, w.lp.SetThresholds([]*big.Int{
		big.NewInt(100), big.NewInt(200), big.NewInt(300),
		big.NewInt(400), big.NewInt(500), big.NewInt(600),
	}))
	require.NoError(t, w.lp.SetWeightScheme([]uint64{5, 15, 30, 70, 150, 400}))
	require.NoError(t, w.lp.SetParam(params.UnstakeTimeSpan.Name(), 1000))
	require.NoError(t, w.lp.SetParam(params.VoteTimeSpan.Name(), 100))
	require.NoError(t, w.lp.SetParam(params.SwapTimeSpan.Name(), 50))
	return w
}

// register lists a project with offering 1000 at price 1 and allowed level gold.
func (w *world) register() {
	w.mint(tok, carol, 1000)
	w.env.as(carol)
	require.NoError(w.t, w.lp.RegisterProject(&Registration{
		Registrant:     carol,
		OfferingAmount: big.NewInt(1000),
		OfferingPrice:  big.NewInt(1e18),
		Ref:            pairRef,
		AllowedLevel:   3,
		Token:          tok,
	}))
}

func (w *world) review(height uint32) {
	w.env.height = height
	w.env.as(admin)
	require.NoError(w.t, w.lp.ReviewProject(pairRef))
}

func assertRevert(t *testing.T, want *reverts.ErrRevert, err error) {
	t.Helper()
	require.Error(t, err)
	assert.True(t, errors.Is(err, want), "want %v, got %v", want, err)
}

func TestDeploy(t *testing.T) {
	w := newWorld(t)
	got, err := w.lp.Admin()
	require.NoError(t, err)
	assert.Equal(t, admin, got)
	assert.Equal(t, EventDeployed, w.env.events[0].Name)
	assert.Equal(t, admin, *w.env.events[0].Account)

	assertRevert(t, reverts.ErrAlreadyDeployed, w.lp.Deploy(alice))
}

func TestAdminGuards(t *testing.T) {
	w := newWorld(t)

	w.env.as(alice)
	assertRevert(t, reverts.ErrUnauthorized, w.lp.SetParam(params.VoteTimeSpan.Name(), 5))
	assertRevert(t, reverts.ErrUnauthorized, w.lp.SetAdmin(alice))
	assertRevert(t, reverts.ErrUnauthorized, w.lp.SetWeightScheme([]uint64{1, 2, 3, 4, 5, 6}))

	w.env.as(admin)
	assertRevert(t, reverts.ErrInvalidParam, w.lp.SetParam("no-such-param", 5))
	assertRevert(t, reverts.ErrInvalidAddress, w.lp.SetAdmin(ido.Address{}))
	assertRevert(t, reverts.ErrBadContractRef, w.lp.SetStakeAsset(alice))

	require.NoError(t, w.lp.SetAdmin(alice))
	assert.Equal(t, EventAdminChanged, w.env.last().Name)
	assertRevert(t, reverts.ErrUnauthorized, w.lp.SetParam(params.VoteTimeSpan.Name(), 5))

	w.env.as(alice)
	require.NoError(t, w.lp.SetParam(params.VoteTimeSpan.Name(), 5))
	v, err := w.lp.Params().Get(params.VoteTimeSpan)
	require.NoError(t, err)
	assert.Equal(t, uint64(5), v)
}

func TestStakeDeposit(t *testing.T) {
	w := newWorld(t)
	w.mint(flm, alice, 1000)
	w.env.height = 7
	w.stake(alice, 350)

	rec, err := w.lp.GetStake(alice)
	require.NoError(t, err)
	assert.Equal(t, big.NewInt(350), rec.StakeAmount)
	assert.Equal(t, uint8(3), rec.StakeLevel)
	assert.Equal(t, uint32(7), rec.LastStakeHeight)
	assert.Equal(t, EventStakeDeposited, w.env.last().Name)

	// any other asset is refused
	w.mint(usd, alice, 10)
	w.env.as(alice)
	_, err = w.assets[usd].Transfer(alice, lpAddr, big.NewInt(10))
	assertRevert(t, reverts.ErrBadAsset, err)
}

func TestUnstakePenaltyBoundary(t *testing.T) {
	tests := []struct {
		name    string
		stake   int64
		elapsed uint32
		payout  int64
	}{
		{"gold early", 300, 999, 75},
		{"gold on time", 300, 1000, 100},
		{"platinum half span", 400, 500, 100},
		{"platinum just early", 400, 499, 75},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := newWorld(t)
			w.mint(flm, alice, tt.stake)
			w.env.height = 10
			w.stake(alice, tt.stake)

			w.env.height = 10 + tt.elapsed
			w.env.as(alice)
			require.NoError(t, w.lp.Unstake(alice, big.NewInt(100)))

			assert.Equal(t, big.NewInt(tt.payout), w.balance(flm, alice))
			assert.Equal(t, big.NewInt(tt.stake-tt.payout), w.balance(flm, lpAddr))
			rec, err := w.lp.GetStake(alice)
			require.NoError(t, err)
			assert.Equal(t, big.NewInt(tt.stake-100), rec.StakeAmount)

			ev := w.env.last()
			assert.Equal(t, EventUnstaked, ev.Name)
			assert.Equal(t, big.NewInt(tt.payout).String(), ev.Attrs["payout"])
		})
	}
}

func TestZeroWithdrawFee(t *testing.T) {
	w := newWorld(t)
	w.env.as(admin)
	require.NoError(t, w.lp.SetParam(params.WithdrawFee.Name(), 0))

	w.mint(flm, alice, 300)
	w.env.height = 10
	w.stake(alice, 300)

	w.env.height = 11
	w.env.as(alice)
	require.NoError(t, w.lp.Unstake(alice, big.NewInt(100)))

	assert.Equal(t, 0, w.balance(flm, alice).Sign())
	assert.Equal(t, big.NewInt(300), w.balance(flm, lpAddr))
	ev := w.env.last()
	assert.Equal(t, "0", ev.Attrs["payout"])
	assert.Equal(t, "100", ev.Attrs["penalty"])
}

func TestUnstakeRejects(t *testing.T) {
	w := newWorld(t)
	w.mint(flm, alice, 300)
	w.stake(alice, 300)

	w.env.as(bob)
	assertRevert(t, reverts.ErrUnauthorized, w.lp.Unstake(alice, big.NewInt(1)))

	w.env.as(alice)
	assertRevert(t, reverts.ErrInsufficientStake, w.lp.Unstake(alice, big.NewInt(301)))
	assertRevert(t, reverts.ErrInsufficientStake, w.lp.Unstake(alice, big.NewInt(0)))

	w.assets[flm].refuse = true
	assertRevert(t, reverts.ErrTransferFailed, w.lp.Unstake(alice, big.NewInt(100)))
}

func TestUnstakeBalanceInvariant(t *testing.T) {
	w := newWorld(t)
	w.mint(flm, alice, 300)
	w.mint(flm, bob, 300)
	w.stake(alice, 300)
	w.stake(bob, 300)

	w.assets[flm].skim = big.NewInt(50)
	w.env.height = 5000
	w.env.as(alice)

	cp := w.st.NewCheckpoint()
	err := w.lp.Unstake(alice, big.NewInt(100))
	assertRevert(t, reverts.ErrBalanceInvariant, err)
	kind, ok := reverts.KindOf(err)
	require.True(t, ok)
	assert.Equal(t, reverts.BalanceInvariantViolation, kind)

	w.st.RevertTo(cp)
	rec, err := w.lp.GetStake(alice)
	require.NoError(t, err)
	assert.Equal(t, big.NewInt(300), rec.StakeAmount)
}

func TestRegisterProject(t *testing.T) {
	w := newWorld(t)
	w.register()

	p, err := w.lp.GetProject(pairRef)
	require.NoError(t, err)
	assert.False(t, p.IsReviewed)
	assert.Equal(t, tok, p.Token)
	assert.Equal(t, big.NewInt(1000), w.balance(tok, pairRef))
	assert.Equal(t, EventProjectRegistered, w.env.last().Name)

	count, err := w.lp.GetProjectsCount()
	require.NoError(t, err)
	assert.Equal(t, uint64(1), count)

	reg := &Registration{
		Registrant:     carol,
		OfferingAmount: big.NewInt(1000),
		OfferingPrice:  big.NewInt(1e18),
		Ref:            pairRef,
		AllowedLevel:   3,
		Token:          tok,
	}
	w.env.as(carol)
	assertRevert(t, reverts.ErrDuplicateProject, w.lp.RegisterProject(reg))

	bad := *reg
	bad.Ref = alice
	assertRevert(t, reverts.ErrBadContractRef, w.lp.RegisterProject(&bad))
	bad = *reg
	bad.Token = alice
	assertRevert(t, reverts.ErrBadContractRef, w.lp.RegisterProject(&bad))
	bad = *reg
	bad.AllowedLevel = 7
	assertRevert(t, reverts.ErrInvalidLevel, w.lp.RegisterProject(&bad))
	bad = *reg
	bad.OfferingAmount = big.NewInt(0)
	assertRevert(t, reverts.ErrInvalidAmount, w.lp.RegisterProject(&bad))
	w.env.as(bob)
	assertRevert(t, reverts.ErrUnauthorized, w.lp.RegisterProject(reg))
}

func TestProjectListing(t *testing.T) {
	w := newWorld(t)
	w.register()

	var all []ido.Address
	for ref, err := range w.lp.ListAllProjects() {
		require.NoError(t, err)
		all = append(all, ref)
	}
	assert.Equal(t, []ido.Address{pairRef}, all)

	page, next, err := w.lp.ProjectPage(ido.Address{}, 10)
	require.NoError(t, err)
	assert.Equal(t, []ido.Address{pairRef}, page)
	assert.True(t, next.IsZero())

	page, _, err = w.lp.ProjectPage(pairRef, 10)
	require.NoError(t, err)
	assert.Equal(t, []ido.Address{pairRef}, page)

	_, _, err = w.lp.ProjectPage(alice, 10)
	assertRevert(t, reverts.ErrProjectNotFound, err)
}

func TestRegisterProjectTransferFailure(t *testing.T) {
	w := newWorld(t)
	w.env.as(carol)
	err := w.lp.RegisterProject(&Registration{
		Registrant:     carol,
		OfferingAmount: big.NewInt(1000),
		OfferingPrice:  big.NewInt(1e18),
		Ref:            pairRef,
		AllowedLevel:   3,
		Token:          tok,
	})
	assertRevert(t, reverts.ErrTransferFailed, err)
}

func TestReviewAndEnd(t *testing.T) {
	w := newWorld(t)
	w.env.as(admin)
	assertRevert(t, reverts.ErrProjectNotFound, w.lp.ReviewProject(pairRef))
	assertRevert(t, reverts.ErrProjectNotFound, w.lp.EndProject(pairRef))

	w.register()
	w.env.as(alice)
	assertRevert(t, reverts.ErrUnauthorized, w.lp.ReviewProject(pairRef))

	w.review(20)
	w.env.height = 30
	assertRevert(t, reverts.ErrAlreadyReviewed, w.lp.ReviewProject(pairRef))
	p, err := w.lp.GetProject(pairRef)
	require.NoError(t, err)
	assert.Equal(t, uint32(20), p.ReviewedHeight)

	require.NoError(t, w.lp.EndProject(pairRef))
	p, err = w.lp.GetProject(pairRef)
	require.NoError(t, err)
	assert.True(t, p.IsEnd)
}

func TestVote(t *testing.T) {
	w := newWorld(t)
	w.mint(flm, alice, 1000)
	w.mint(flm, bob, 1000)
	w.stake(alice, 300)
	w.stake(bob, 250)
	w.register()

	w.env.as(alice)
	assertRevert(t, reverts.ErrProjectNotReviewed, w.lp.Vote(alice, pairRef))

	w.review(100)
	w.env.as(alice)
	require.NoError(t, w.lp.Vote(alice, pairRef))
	assertRevert(t, reverts.ErrAlreadyVoted, w.lp.Vote(alice, pairRef))

	w.env.as(bob)
	assertRevert(t, reverts.ErrInsufficientTier, w.lp.Vote(bob, pairRef))
	assertRevert(t, reverts.ErrUnauthorized, w.lp.Vote(alice, pairRef))

	w.env.height = 200
	w.stake(bob, 100)
	w.env.as(bob)
	assertRevert(t, reverts.ErrVoteWindowClosed, w.lp.Vote(bob, pairRef))

	p, err := w.lp.GetProject(pairRef)
	require.NoError(t, err)
	assert.Equal(t, uint64(30), p.TotalWeight)

	w.env.as(admin)
	require.NoError(t, w.lp.EndProject(pairRef))
	w.env.as(bob)
	assertRevert(t, reverts.ErrProjectEnded, w.lp.Vote(bob, pairRef))
}

// Offering 1000 at price 1, weights 30 and 70: alice may buy 300,
// swaps 200 in round 1 and claims 200.
func TestScenario(t *testing.T) {
	w := newWorld(t)
	w.mint(flm, alice, 300)
	w.mint(flm, bob, 400)
	w.mint(usd, alice, 1000)
	w.stake(alice, 300)
	w.stake(bob, 400)
	w.register()
	w.review(100)

	w.env.height = 150
	w.env.as(alice)
	require.NoError(t, w.lp.Vote(alice, pairRef))
	w.env.as(bob)
	require.NoError(t, w.lp.Vote(bob, pairRef))

	info, err := w.lp.GetUserInfo(alice, pairRef)
	require.NoError(t, err)
	assert.Equal(t, uint64(30), info.Weight)
	assert.Equal(t, 0, info.SwapAmountMax.Sign(), "cap hidden while voting")

	w.env.as(alice)
	assertRevert(t, reverts.ErrRoundNotOpen, w.lp.SwapToken(alice, pairRef, big.NewInt(200)))

	w.env.height = 200
	info, err = w.lp.GetUserInfo(alice, pairRef)
	require.NoError(t, err)
	assert.Equal(t, big.NewInt(300), info.SwapAmountMax)

	assertRevert(t, reverts.ErrBadSwapAmount, w.lp.SwapToken(alice, pairRef, big.NewInt(301)))
	require.NoError(t, w.lp.SwapToken(alice, pairRef, big.NewInt(200)))
	assert.Equal(t, EventSwap, w.env.last().Name)
	assert.Equal(t, big.NewInt(200), w.env.last().Amount)

	assert.Equal(t, big.NewInt(800), w.balance(usd, alice))
	assert.Equal(t, big.NewInt(200), w.balance(usd, pairRef))
	assert.Equal(t, big.NewInt(200), w.balance(tok, lpAddr))
	assert.Equal(t, big.NewInt(800), w.balance(tok, pairRef))

	info, err = w.lp.GetUserInfo(alice, pairRef)
	require.NoError(t, err)
	assert.Equal(t, big.NewInt(200), info.SwappedAmount)
	assert.Equal(t, big.NewInt(200), info.ClaimAmount)

	assertRevert(t, reverts.ErrBadSwapAmount, w.lp.SwapToken(alice, pairRef, big.NewInt(101)))
	assertRevert(t, reverts.ErrClaimNotOpen, w.lp.ClaimToken(alice, pairRef))

	w.env.height = 250
	assertRevert(t, reverts.ErrRoundClosed, w.lp.SwapToken(alice, pairRef, big.NewInt(1)))
	require.NoError(t, w.lp.ClaimToken(alice, pairRef))
	assert.Equal(t, big.NewInt(200), w.balance(tok, alice))
	assert.Equal(t, 0, w.balance(tok, lpAddr).Sign())
	assert.Equal(t, EventClaimed, w.env.last().Name)

	assertRevert(t, reverts.ErrNothingToClaim, w.lp.ClaimToken(alice, pairRef))
}

// repeated round 1 swaps accumulate into a single claim.
func TestClaimConservation(t *testing.T) {
	w := newWorld(t)
	w.mint(flm, alice, 300)
	w.mint(flm, bob, 400)
	w.mint(usd, alice, 1000)
	w.stake(alice, 300)
	w.stake(bob, 400)
	w.register()
	w.review(100)
	w.env.as(alice)
	require.NoError(t, w.lp.Vote(alice, pairRef))
	w.env.as(bob)
	require.NoError(t, w.lp.Vote(bob, pairRef))

	w.env.height = 200
	w.env.as(alice)
	require.NoError(t, w.lp.SwapToken(alice, pairRef, big.NewInt(120)))
	require.NoError(t, w.lp.SwapToken(alice, pairRef, big.NewInt(80)))

	info, err := w.lp.GetUserInfo(alice, pairRef)
	require.NoError(t, err)
	assert.Equal(t, big.NewInt(200), info.SwappedAmount)
	assert.Equal(t, big.NewInt(200), info.ClaimAmount)
	assert.Equal(t, big.NewInt(200), w.balance(tok, lpAddr))

	w.env.height = 250
	require.NoError(t, w.lp.ClaimToken(alice, pairRef))
	assert.Equal(t, big.NewInt(200), w.balance(tok, alice))
	assert.Equal(t, big.NewInt(200), w.env.last().Amount)

	info, err = w.lp.GetUserInfo(alice, pairRef)
	require.NoError(t, err)
	assert.Equal(t, 0, info.ClaimAmount.Sign())
	assert.Equal(t, big.NewInt(200), info.SwappedAmount)
}

func TestSecondRound(t *testing.T) {
	w := newWorld(t)
	w.mint(usd, bob, 1000)
	w.register()
	w.review(100)

	w.env.height = 249
	w.env.as(bob)
	assertRevert(t, reverts.ErrRoundNotOpen, w.lp.SwapTokenSecondRound(bob, pairRef, big.NewInt(10)))

	w.env.height = 250
	assertRevert(t, reverts.ErrBadSwapAmount, w.lp.SwapTokenSecondRound(bob, pairRef, big.NewInt(0)))
	require.NoError(t, w.lp.SwapTokenSecondRound(bob, pairRef, big.NewInt(600)))
	assert.Equal(t, big.NewInt(600), w.balance(tok, bob))
	assert.Equal(t, big.NewInt(400), w.balance(usd, bob))
	assert.Equal(t, big.NewInt(600), w.balance(usd, pairRef))

	info, err := w.lp.GetUserInfo(bob, pairRef)
	require.NoError(t, err)
	assert.Equal(t, 0, info.ClaimAmount.Sign())

	w.env.height = 300
	assertRevert(t, reverts.ErrRoundClosed, w.lp.SwapTokenSecondRound(bob, pairRef, big.NewInt(10)))
}

func TestSwapAmountMismatch(t *testing.T) {
	w := newWorld(t)
	w.mint(flm, alice, 300)
	w.mint(usd, alice, 1000)
	w.stake(alice, 300)
	w.register()
	w.review(100)
	w.env.as(alice)
	require.NoError(t, w.lp.Vote(alice, pairRef))

	// the relay prices the token twice as high and delivers half
	w.relays[pairRef].price = big.NewInt(2e18)
	w.env.height = 200
	cp := w.st.NewCheckpoint()
	assertRevert(t, reverts.ErrAmountMismatch, w.lp.SwapToken(alice, pairRef, big.NewInt(100)))
	w.st.RevertTo(cp)

	info, err := w.lp.GetUserInfo(alice, pairRef)
	require.NoError(t, err)
	assert.Equal(t, 0, info.SwappedAmount.Sign())
}

// the sum of round 1 swaps never exceeds the offering.
func TestProRataConservation(t *testing.T) {
	w := newWorld(t)
	users := []ido.Address{alice, bob, ido.BytesToAddress([]byte("dave")), ido.BytesToAddress([]byte("erin"))}
	stakes := []int64{300, 400, 500, 600}
	for i, u := range users {
		w.mint(flm, u, stakes[i])
		w.mint(usd, u, 10000)
		w.stake(u, stakes[i])
	}
	w.register()
	w.review(100)
	for _, u := range users {
		w.env.as(u)
		require.NoError(t, w.lp.Vote(u, pairRef))
	}

	w.env.height = 200
	total := new(big.Int)
	for _, u := range users {
		info, err := w.lp.GetUserInfo(u, pairRef)
		require.NoError(t, err)
		if info.SwapAmountMax.Sign() == 0 {
			continue
		}
		w.env.as(u)
		require.NoError(t, w.lp.SwapToken(u, pairRef, info.SwapAmountMax))
		total.Add(total, info.SwapAmountMax)
	}
	assert.LessOrEqual(t, total.Cmp(big.NewInt(1000)), 0)
	assert.Equal(t, total, w.balance(tok, lpAddr))
}

func TestIntentResolution(t *testing.T) {
	w := newWorld(t)
	intent, err := w.lp.Resolve(flm, alice)
	require.NoError(t, err)
	assert.Equal(t, StakeDeposit, intent)

	intent, err = w.lp.Resolve(usd, alice)
	require.NoError(t, err)
	assert.Equal(t, Rejected, intent)

	done := w.lp.expecting(SpendReceipt, usd, alice)
	intent, err = w.lp.Resolve(usd, alice)
	require.NoError(t, err)
	assert.Equal(t, SpendReceipt, intent)
	done()

	intent, err = w.lp.Resolve(usd, alice)
	require.NoError(t, err)
	assert.Equal(t, Rejected, intent)
	assert.Equal(t, "spend-receipt", SpendReceipt.String())
}

package types

// Pre-built singleton unions for primitive keywords. Each call returns a
// fresh Union wrapper (flags are per-use) around a shared atomic payload.

var (
	intAtomic      = &TInt{}
	floatAtomic    = &TFloat{}
	stringAtomic   = &TString{}
	boolAtomic     = &TBool{}
	nullAtomic     = &TNull{}
	mixedAtomic    = &TMixed{}
	nonNullMixed   = &TMixed{NonNull: true}
	neverAtomic    = &TNever{}
	voidAtomic     = &TVoid{}
	scalarAtomic   = &TScalar{}
	arrayKeyAtomic = &TArrayKey{}
	resourceAtomic = &TResource{}
	objectAtomic   = &TAnyObject{}
)

func IntType() *Union      { return Wrap(intAtomic) }
func FloatType() *Union    { return Wrap(floatAtomic) }
func StringType() *Union   { return Wrap(stringAtomic) }
func BoolType() *Union     { return Wrap(boolAtomic) }
func NullType() *Union     { return Wrap(nullAtomic) }
func MixedType() *Union    { return Wrap(mixedAtomic) }
func NonNullMixed() *Union { return Wrap(nonNullMixed) }
func NeverType() *Union    { return Wrap(neverAtomic) }
func VoidType() *Union     { return Wrap(voidAtomic) }
func ScalarType() *Union   { return Wrap(scalarAtomic) }
func ArrayKeyType() *Union { return Wrap(arrayKeyAtomic) }
func ResourceType() *Union { return Wrap(resourceAtomic) }
func ObjectType() *Union   { return Wrap(objectAtomic) }

// NullAtomic returns the shared null atomic, used by the nullable sugar.
func NullAtomic() Atomic { return nullAtomic }

// MixedAtomic returns the shared mixed atomic.
func MixedAtomic() Atomic { return mixedAtomic }

// NeverAtomic returns the shared never atomic.
func NeverAtomic() Atomic { return neverAtomic }

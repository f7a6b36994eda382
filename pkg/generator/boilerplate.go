package generator

// resultBoilerplate and optionBoilerplate are emitted exactly once per
// compilation unit (spec.md §4.4 "Emitted boilerplate"), regardless of how
// many functions or modules use Result/Option.
const resultBoilerplate = `public struct Result<T, E>
{
    public bool IsSuccess { get; }
    public T Value { get; }
    public E ErrorValue { get; }
    public bool IsError => !IsSuccess;

    private Result(bool isSuccess, T value, E errorValue)
    {
        IsSuccess = isSuccess;
        Value = value;
        ErrorValue = errorValue;
    }

    public static Result<T, E> Ok(T value) => new Result<T, E>(true, value, default(E));
    public static Result<T, E> Error(E error) => new Result<T, E>(false, default(T), error);
}
`

const optionBoilerplate = `public struct Option<T>
{
    public bool HasValue { get; }
    public T Value { get; }

    private Option(bool hasValue, T value)
    {
        HasValue = hasValue;
        Value = value;
    }

    public static Option<T> Some(T value) => new Option<T>(true, value);
    public static Option<T> None() => new Option<T>(false, default(T));
}
`

